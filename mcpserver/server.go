// Package mcpserver exposes image rotation as an MCP tool over stdio so
// that agent hosts can rotate files without shelling out to the CLI.
package mcpserver

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/picsafe/rotate/logutil"
	"github.com/picsafe/rotate/rotator"
)

// Rotator performs one rotation per call.
type Rotator interface {
	Rotate(ctx context.Context, path, token string) (rotator.Result, error)
}

// Server wraps an MCP stdio server with a single rotate_image tool.
type Server struct {
	mcp     *server.MCPServer
	rotator Rotator
	log     *logutil.ComponentLogger
}

// New creates a Server for the given rotator.
func New(r Rotator, versionString string) *Server {
	s := &Server{
		rotator: r,
		log:     logutil.NewLogger("mcpserver"),
	}

	s.mcp = server.NewMCPServer("rotate", versionString, server.WithToolCapabilities(false))

	tool := mcp.NewTool("rotate_image",
		mcp.WithDescription("Losslessly rotate a JPEG or PNG file in place. The original is backed up before replacement."),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Path to the image file to rotate"),
		),
		mcp.WithString("direction",
			mcp.Required(),
			mcp.Description("Rotation direction: l (90 counterclockwise), r (90 clockwise), or f (180)"),
		),
	)
	s.mcp.AddTool(tool, s.handleRotate)

	return s
}

// Serve runs the server on stdio until the client disconnects.
func (s *Server) Serve() error {
	s.log.Info("serving on stdio")
	return server.ServeStdio(s.mcp)
}

func (s *Server) handleRotate(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := argsMap(request)

	path, ok := stringParam(args, "path")
	if !ok || path == "" {
		return mcp.NewToolResultError("missing required parameter: path"), nil
	}
	direction, ok := stringParam(args, "direction")
	if !ok || direction == "" {
		return mcp.NewToolResultError("missing required parameter: direction"), nil
	}

	result, err := s.rotator.Rotate(ctx, path, direction)
	if err != nil {
		s.log.Warn("rotation failed", "path", path, "error", err)
		return mcp.NewToolResultError(fmt.Sprintf("rotation failed: %v", err)), nil
	}

	return marshalResult(map[string]interface{}{
		"path":       result.Path,
		"direction":  result.Direction.String(),
		"angle":      result.Angle,
		"backupPath": result.BackupPath,
	})
}
