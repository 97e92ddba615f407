// Package chatbot answers natural language questions about the visible
// reporting perimeter. Answers are deterministic (keyword rules, no
// model calls) and strictly read-only.
package chatbot

import (
	"github.com/alexisferrand/cockpit/internal/domain"
)

// Context carries everything an answer may depend on. It is built per
// question from the caller's resolved scope; the answerer itself holds
// no user state between calls.
type Context struct {
	Role           domain.Role
	UserID         string
	MissionIDs     []string
	VisibleUserIDs []string
}

// Table is a titled grid of already formatted cells, ready for rendering.
type Table struct {
	Title   string
	Headers []string
	Rows    [][]string
}

// Result is one chatbot answer: a text block plus zero or more tables.
type Result struct {
	Text   string
	Tables []Table
}
