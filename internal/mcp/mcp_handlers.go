package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"

	"github.com/huangsam/utilstudy/core/recidivism"
	"github.com/huangsam/utilstudy/core/rename"
	"github.com/huangsam/utilstudy/internal/contract"
	"github.com/huangsam/utilstudy/schema"
	"github.com/mark3labs/mcp-go/mcp"
)

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	baseCfg *contract.Config
	mgr     contract.CacheManager
}

// PathClass is the classify_path response.
type PathClass struct {
	Path  string `json:"path"`
	Util  bool   `json:"util"`
	Test  bool   `json:"test"`
	Label string `json:"label"`
}

// OddsRatio is the odds_ratio response.
type OddsRatio struct {
	Table   schema.ContingencyTable `json:"table"`
	Ratio   float64                 `json:"odds_ratio"`
	Defined bool                    `json:"defined"`
}

// Chain is the alias_chain response.
type Chain struct {
	Current string            `json:"current"`
	Aliases schema.AliasChain `json:"aliases"`
	Util    bool              `json:"util"`
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	jsonData, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to encode result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleClassifyPath(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path := request.GetString("path", "")
	if path == "" {
		return mcp.NewToolResultError("path is required"), nil
	}
	util := contract.IsUtilPath(path)
	return jsonResult(PathClass{
		Path:  path,
		Util:  util,
		Test:  contract.IsTestPath(path),
		Label: contract.GetPlainLabel(util),
	})
}

func (h *toolHandler) handleOddsRatio(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	table := schema.ContingencyTable{
		UtilOff:       request.GetInt("util_offenders", -1),
		UtilNonOff:    request.GetInt("util_non_offenders", -1),
		NonUtilOff:    request.GetInt("non_util_offenders", -1),
		NonUtilNonOff: request.GetInt("non_util_non_offenders", -1),
	}
	if table.UtilOff < 0 || table.UtilNonOff < 0 || table.NonUtilOff < 0 || table.NonUtilNonOff < 0 {
		return mcp.NewToolResultError("all four counts are required and must be non-negative"), nil
	}
	ratio, ok := table.OddsRatio()
	return jsonResult(OddsRatio{Table: table, Ratio: ratio, Defined: ok})
}

func (h *toolHandler) handleAliasChain(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	file := request.GetString("chains_file", "")
	path := request.GetString("path", "")
	if file == "" || path == "" {
		return mcp.NewToolResultError("chains_file and path are required"), nil
	}

	chains, err := rename.ReadChains(file)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to read chains: %v", err)), nil
	}
	for _, c := range chains {
		if !slices.Contains(c, path) {
			continue
		}
		return jsonResult(Chain{
			Current: c.Current(),
			Aliases: c,
			Util:    slices.ContainsFunc(c, contract.IsUtilPath),
		})
	}
	return mcp.NewToolResultError(fmt.Sprintf("no chain contains %s", path)), nil
}

func (h *toolHandler) handleRecidivismRates(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	file := request.GetString("series_file", "")
	if file == "" {
		return mcp.NewToolResultError("series_file is required"), nil
	}
	series, err := recidivism.LoadSeries(file)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to load series: %v", err)), nil
	}
	return jsonResult(struct {
		Project string                 `json:"project"`
		Days    int                    `json:"days"`
		Status  schema.UtilStatus      `json:"status"`
		Rates   schema.RecidivismRates `json:"rates"`
	}{series.Project, series.Days, series.Status, recidivism.Rates(series)})
}

func (h *toolHandler) handleResultsStatus(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var store contract.ResultsStore
	if h.mgr != nil {
		store = h.mgr.GetResultsStore()
	}
	if store == nil {
		return mcp.NewToolResultError(fmt.Sprintf("results store is not configured (backend %q)", h.baseCfg.ResultsBackend)), nil
	}
	status, err := store.GetStatus()
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to get results status: %v", err)), nil
	}
	return jsonResult(status)
}
