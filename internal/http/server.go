// Package http exposes the ledger operations as JSON tool endpoints.
//
// The transport is deliberately thin: it decodes requests, hands them to the
// ledger service, and encodes its structured results. All invariants live in
// the service and storage layers.
package http

import (
	"net/http"

	"github.com/yinsights8/personal-expense-tracker-mcp/internal/core"
	"github.com/yinsights8/personal-expense-tracker-mcp/internal/middleware/trace"
	"github.com/yinsights8/personal-expense-tracker-mcp/internal/services"
)

type Server struct {
	http.Server
	service         *services.LedgerService
	categoriesPath  string
	traceMiddleware *trace.Middleware
}

// NewServer wires the tool routes. Each tool name matches the operation it
// dispatches, one pair of routes per ledger.
func NewServer(addr string, service *services.LedgerService, categoriesPath string) *Server {
	s := &Server{
		service:         service,
		categoriesPath:  categoriesPath,
		traceMiddleware: trace.NewMiddleware(),
	}

	mux := http.NewServeMux()

	mux.HandleFunc("POST /tools/add_expense", s.handleAdd(core.Expense))
	mux.HandleFunc("POST /tools/add_credit", s.handleAdd(core.Credit))
	mux.HandleFunc("POST /tools/list_expenses", s.handleList(core.Expense))
	mux.HandleFunc("POST /tools/list_credits", s.handleList(core.Credit))
	mux.HandleFunc("POST /tools/edit_expense", s.handleEdit(core.Expense))
	mux.HandleFunc("POST /tools/edit_credit", s.handleEdit(core.Credit))
	mux.HandleFunc("POST /tools/delete_expense", s.handleDeleteByID(core.Expense))
	mux.HandleFunc("POST /tools/delete_credit", s.handleDeleteByID(core.Credit))
	mux.HandleFunc("POST /tools/remove_expense", s.handleRemoveByCriteria(core.Expense))
	mux.HandleFunc("POST /tools/remove_credit", s.handleRemoveByCriteria(core.Credit))
	mux.HandleFunc("POST /tools/summarize", s.handleSummarize(core.Expense))
	mux.HandleFunc("POST /tools/summarize_credits", s.handleSummarize(core.Credit))

	mux.HandleFunc("GET /resources/categories", s.handleCategories)
	mux.HandleFunc("GET /healthz", s.handleHealth)

	s.Addr = addr
	s.Handler = s.traceMiddleware.Middleware(mux)
	return s
}
