// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"

	"github.com/huangsam/utilstudy/internal/contract"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// NewMCPServer initializes and configures the utilstudy MCP server without starting it.
// This is exposed for unit testing.
func NewMCPServer(baseCfg *contract.Config, mgr contract.CacheManager) *server.MCPServer {
	s := server.NewMCPServer(
		"Utilstudy Analysis Server",
		"1.0.0",
		server.WithLogging(),
	)

	h := &toolHandler{
		baseCfg: baseCfg,
		mgr:     mgr,
	}

	s.AddTool(mcp.NewTool("classify_path",
		mcp.WithDescription("Classify a file path as util/helper and as test code using the study heuristics."),
		mcp.WithString("path", mcp.Description("The file path to classify."), mcp.Required()),
	), h.handleClassifyPath)

	s.AddTool(mcp.NewTool("odds_ratio",
		mcp.WithDescription("Compute the odds ratio of a util/offender contingency table."),
		mcp.WithNumber("util_offenders", mcp.Description("Util files fixed for at least one CVE."), mcp.Required()),
		mcp.WithNumber("util_non_offenders", mcp.Description("Util files never fixed for a CVE."), mcp.Required()),
		mcp.WithNumber("non_util_offenders", mcp.Description("Non-util files fixed for at least one CVE."), mcp.Required()),
		mcp.WithNumber("non_util_non_offenders", mcp.Description("Non-util files never fixed for a CVE."), mcp.Required()),
	), h.handleOddsRatio)

	s.AddTool(mcp.NewTool("alias_chain",
		mcp.WithDescription("Find the rename history of a file in a rename CSV produced by `utilstudy rename`."),
		mcp.WithString("chains_file", mcp.Description("Path to the rename CSV."), mcp.Required()),
		mcp.WithString("path", mcp.Description("Any current or former name of the file."), mcp.Required()),
	), h.handleAliasChain)

	s.AddTool(mcp.NewTool("recidivism_rates",
		mcp.WithDescription("Compute per-window type and module recidivism rates of a series written by `utilstudy recidivism report`."),
		mcp.WithString("series_file", mcp.Description("Path to the <project>_<days>_<status>.json series."), mcp.Required()),
	), h.handleRecidivismRates)

	s.AddTool(mcp.NewTool("results_status",
		mcp.WithDescription("Report the state of the results store: backend, run count and table sizes."),
	), h.handleResultsStatus)

	return s
}

// StartMCPServer starts the utilstudy MCP server on stdio.
func StartMCPServer(_ context.Context, baseCfg *contract.Config, mgr contract.CacheManager) error {
	s := NewMCPServer(baseCfg, mgr)
	return server.ServeStdio(s)
}
