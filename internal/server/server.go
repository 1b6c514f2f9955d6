// Package server exposes the analyzer over JSON-RPC 2.0 on stdio. Each
// request line is one JSON-RPC request; responses go to stdout, one per
// line. The protocol follows the MCP shape: initialize, tools/list,
// tools/call.
package server

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"sync"

	"worklens/internal/analyze"
	"worklens/internal/config"
	"worklens/internal/filter"
	"worklens/internal/jsonrpc"
	"worklens/internal/render"
)

const (
	protocolVersion = "2024-11-05"
	serverName      = "worklens"
	serverVersion   = "0.1.0"

	defaultRecentDays = 7
)

// Server answers analysis queries over a reader/writer pair.
type Server struct {
	cfg      config.Config
	analyzer *analyze.Analyzer
	handler  *jsonrpc.Handler
	log      *log.Logger

	mu  sync.Mutex // serializes writes
	out io.Writer
}

// New wires up the method table. logger receives diagnostics, never
// protocol output.
func New(cfg config.Config, logger *log.Logger) *Server {
	s := &Server{
		cfg:      cfg,
		analyzer: analyze.New(cfg, logger),
		handler:  jsonrpc.NewHandler(),
		log:      logger,
	}
	s.handler.Register("initialize", s.initialize)
	s.handler.Register("tools/list", s.toolsList)
	s.handler.Register("tools/call", s.toolsCall)
	return s
}

// Serve reads requests from in until EOF. Parse failures produce a
// JSON-RPC parse error response rather than terminating the loop.
func (s *Server) Serve(ctx context.Context, in io.Reader, out io.Writer) error {
	s.out = out

	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), 10*1024*1024)

	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var req jsonrpc.Request
		if err := json.Unmarshal(line, &req); err != nil {
			s.write(jsonrpc.Response{
				JSONRPC: "2.0",
				Error:   &jsonrpc.RPCError{Code: jsonrpc.ErrParseError, Message: "Parse error"},
			})
			continue
		}

		resp := s.handler.Handle(ctx, req)
		// Notifications (no id) get no response.
		if req.ID == nil {
			continue
		}
		s.write(resp)

		if ctx.Err() != nil {
			return ctx.Err()
		}
	}
	return scanner.Err()
}

func (s *Server) write(resp jsonrpc.Response) {
	data, err := json.Marshal(resp)
	if err != nil {
		s.log.Printf("encode response: %v", err)
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.out.Write(data)
	s.out.Write([]byte("\n"))
}

func (s *Server) initialize(ctx context.Context, params json.RawMessage) (any, *jsonrpc.RPCError) {
	return map[string]any{
		"protocolVersion": protocolVersion,
		"capabilities": map[string]any{
			"tools": map[string]any{},
		},
		"serverInfo": map[string]any{
			"name":    serverName,
			"version": serverVersion,
		},
	}, nil
}

func (s *Server) toolsList(ctx context.Context, params json.RawMessage) (any, *jsonrpc.RPCError) {
	return map[string]any{"tools": toolDefinitions()}, nil
}

type callParams struct {
	Name      string          `json:"name"`
	Arguments json.RawMessage `json:"arguments"`
}

func (s *Server) toolsCall(ctx context.Context, params json.RawMessage) (any, *jsonrpc.RPCError) {
	var call callParams
	if err := json.Unmarshal(params, &call); err != nil {
		return nil, &jsonrpc.RPCError{Code: jsonrpc.ErrInvalidParams, Message: err.Error()}
	}

	var (
		text string
		err  *jsonrpc.RPCError
	)
	switch call.Name {
	case "analyze_work_period":
		text, err = s.analyzeWorkPeriod(ctx, call.Arguments)
	case "get_project_stats":
		text, err = s.projectStats(ctx, call.Arguments)
	case "summarize_recent":
		text, err = s.summarizeRecent(ctx, call.Arguments)
	default:
		return nil, &jsonrpc.RPCError{
			Code:    jsonrpc.ErrInvalidParams,
			Message: fmt.Sprintf("Unknown tool: %s", call.Name),
		}
	}
	if err != nil {
		return nil, err
	}

	return map[string]any{
		"content": []map[string]any{
			{"type": "text", "text": text},
		},
	}, nil
}

type analyzeArgs struct {
	FromDate      string `json:"from_date"`
	ToDate        string `json:"to_date"`
	ProjectFilter string `json:"project_filter"`
	Format        string `json:"format"`
}

func (s *Server) analyzeWorkPeriod(ctx context.Context, raw json.RawMessage) (string, *jsonrpc.RPCError) {
	var args analyzeArgs
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &args); err != nil {
			return "", &jsonrpc.RPCError{Code: jsonrpc.ErrInvalidParams, Message: err.Error()}
		}
	}

	loc, locErr := s.cfg.Location()
	if locErr != nil {
		return "", &jsonrpc.RPCError{Code: jsonrpc.ErrValidation, Message: locErr.Error()}
	}
	f, parseErr := filter.ParseRange(args.FromDate, args.ToDate, args.ProjectFilter, loc)
	if parseErr != nil {
		return "", &jsonrpc.RPCError{Code: jsonrpc.ErrValidation, Message: parseErr.Error()}
	}

	res, err := s.analyzer.Analyze(ctx, f)
	if err != nil {
		return "", &jsonrpc.RPCError{Code: jsonrpc.ErrSourceAccess, Message: err.Error()}
	}

	if args.Format == "json" {
		out, jsonErr := render.JSON(res, loc)
		if jsonErr != nil {
			return "", &jsonrpc.RPCError{Code: jsonrpc.ErrInternalError, Message: jsonErr.Error()}
		}
		return out, nil
	}
	return render.Markdown(res, loc), nil
}

type projectStatsArgs struct {
	ProjectName string `json:"project_name"`
	Days        int    `json:"days"`
}

func (s *Server) projectStats(ctx context.Context, raw json.RawMessage) (string, *jsonrpc.RPCError) {
	var args projectStatsArgs
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &args); err != nil {
			return "", &jsonrpc.RPCError{Code: jsonrpc.ErrInvalidParams, Message: err.Error()}
		}
	}
	if args.ProjectName == "" {
		return "", &jsonrpc.RPCError{Code: jsonrpc.ErrInvalidParams, Message: "project_name is required"}
	}

	res, err := s.analyzer.LastDays(ctx, args.Days, args.ProjectName)
	if err != nil {
		return "", &jsonrpc.RPCError{Code: jsonrpc.ErrSourceAccess, Message: err.Error()}
	}

	loc, _ := s.cfg.Location()
	return render.Markdown(res, loc), nil
}

type summarizeArgs struct {
	Days int `json:"days"`
}

func (s *Server) summarizeRecent(ctx context.Context, raw json.RawMessage) (string, *jsonrpc.RPCError) {
	args := summarizeArgs{Days: defaultRecentDays}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &args); err != nil {
			return "", &jsonrpc.RPCError{Code: jsonrpc.ErrInvalidParams, Message: err.Error()}
		}
	}
	if args.Days <= 0 {
		args.Days = defaultRecentDays
	}

	res, err := s.analyzer.LastDays(ctx, args.Days, "")
	if err != nil {
		return "", &jsonrpc.RPCError{Code: jsonrpc.ErrSourceAccess, Message: err.Error()}
	}

	loc, _ := s.cfg.Location()
	return render.Condensed(res, args.Days, loc), nil
}
