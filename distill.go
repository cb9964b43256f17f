// Package distill extracts the readable content subtree from noisy HTML
// documents. It decides which DOM nodes belong to the main article, builds a
// minimal sanitized copy of just those nodes, and exposes the visibility,
// geometry and link-density heuristics that text-scoring stages consume.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. The content selection pipeline lives in content/,
// and implementations live in subdirectories named after their primary
// dependency (e.g., rod/, douceur/, goquery/).
package distill
