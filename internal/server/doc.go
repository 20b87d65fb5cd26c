// Package server implements the MCP (Model Context Protocol) server for image transformation tools.
//
// This package provides a JSON-RPC 2.0 server that exposes the resize, crop and
// watermark pipeline of the imaging package through the MCP protocol.
//
// # Protocol
//
// The server communicates over stdio using JSON-RPC 2.0:
//   - Input: JSON-RPC requests on stdin (one per line)
//   - Output: JSON-RPC responses on stdout
//
// Supported MCP methods:
//   - initialize: Protocol handshake
//   - tools/list: Enumerate available tools
//   - tools/call: Execute a tool with arguments
//   - ping: Health check
//
// # Available Tools
//
// Basic Image Information:
//   - image_load: Load image and get metadata
//   - image_dimensions: Get width and height
//
// Geometry:
//   - image_calculate_resize: Proportional fit of a size into a box
//   - image_calculate_offset: Anchor placement of an item in a container
//
// Pipeline:
//   - image_transform: Ordered resize/crop/watermark steps, saved to disk or
//     returned as base64
//
// Anchors are accepted as JSON strings ("left", "center", "bottom", "30%",
// "-10") or integers and are parsed before any pixel work starts.
//
// # Configuration
//
// Defaults come from Config, usually built with ConfigFromEnv:
//   - IMAGE_TRANSFORM_LOG_LEVEL=debug: log every request to stderr
//   - IMAGE_TRANSFORM_JPEG_QUALITY: default JPEG quality (1-100)
//   - IMAGE_TRANSFORM_PNG_COMPRESSION: default PNG compression (0-9)
//   - IMAGE_TRANSFORM_RESAMPLER: default resize filter
//
// Tool arguments override these per call.
//
// # Image Caching
//
// Decoded source files are cached by path. Every transform works on a copy, so
// cached rasters never change. Writing a file evicts its cache entry.
//
// # Error Handling
//
// Tool execution errors are returned as JSON-RPC error responses with:
//   - code: -32000 (tool execution failure) or standard JSON-RPC codes
//   - message: Human-readable error description
//   - data: Additional error details (typically the Go error string)
//
// # Usage
//
//	cfg, err := server.ConfigFromEnv()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := server.NewWithConfig(cfg).Run(); err != nil {
//	    log.Fatal(err)
//	}
package server
