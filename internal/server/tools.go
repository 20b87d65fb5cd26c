package server

import (
	"log"
	"strings"

	"github.com/ironsheep/image-transform-mcp/internal/imaging"
)

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

// anchorSchema describes an x or y anchor argument.
func anchorSchema(keywords, description string) map[string]interface{} {
	return map[string]interface{}{
		"type":        []string{"string", "integer"},
		"description": description + ". One of " + keywords + `, a percentage such as "30%", or a pixel offset (negative values count from the far edge). Omit for the default.`,
	}
}

func horizontalAnchorSchema() map[string]interface{} {
	return anchorSchema("left, center, right", "Horizontal anchor")
}

func verticalAnchorSchema() map[string]interface{} {
	return anchorSchema("top, center (or middle), bottom", "Vertical anchor")
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		// Basic Image Information
		{
			Name:        "image_load",
			Description: "Load an image file and return its dimensions, format, MIME type, alpha presence and file size. The decoded image is cached for subsequent calls.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the image file",
					},
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "image_dimensions",
			Description: "Get the width and height of an image file.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the image file",
					},
				},
				"required": []string{"path"},
			},
		},

		// Geometry
		{
			Name:        "image_calculate_resize",
			Description: "Compute the proportional size an image of orig_width x orig_height gets when fitted into a width x height box. Images that already fit are never scaled up.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"width": map[string]interface{}{
						"type":        "integer",
						"description": "Target box width",
					},
					"height": map[string]interface{}{
						"type":        "integer",
						"description": "Target box height",
					},
					"orig_width": map[string]interface{}{
						"type":        "integer",
						"description": "Original image width",
					},
					"orig_height": map[string]interface{}{
						"type":        "integer",
						"description": "Original image height",
					},
				},
				"required": []string{"width", "height", "orig_width", "orig_height"},
			},
		},
		{
			Name:        "image_calculate_offset",
			Description: "Compute the top-left position of an item placed inside a container using x and y anchors. The same placement is used by crop and watermark steps.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"x": horizontalAnchorSchema(),
					"y": verticalAnchorSchema(),
					"container_width": map[string]interface{}{
						"type":        "integer",
						"description": "Container width in pixels",
					},
					"container_height": map[string]interface{}{
						"type":        "integer",
						"description": "Container height in pixels",
					},
					"item_width": map[string]interface{}{
						"type":        "integer",
						"description": "Item width in pixels",
					},
					"item_height": map[string]interface{}{
						"type":        "integer",
						"description": "Item height in pixels",
					},
				},
				"required": []string{"container_width", "container_height", "item_width", "item_height"},
			},
		},

		// Pipeline
		{
			Name: "image_transform",
			Description: "Apply an ordered list of resize, crop and watermark steps to an image. " +
				"Resize always fits against the original image size; crop and watermark act on the current result. " +
				"The result is saved to output, saved over the source when overwrite is set, or returned as base64.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the source image",
					},
					"data_base64": map[string]interface{}{
						"type":        "string",
						"description": "Base64-encoded source image, used instead of path",
					},
					"steps": map[string]interface{}{
						"type":        "array",
						"description": "Modifiers applied in order",
						"items": map[string]interface{}{
							"type": "object",
							"properties": map[string]interface{}{
								"op": map[string]interface{}{
									"type": "string",
									"enum": []string{"resize", "crop", "watermark"},
								},
								"width": map[string]interface{}{
									"type":        "integer",
									"description": "resize: box width. crop: region width, clamped to the current width",
								},
								"height": map[string]interface{}{
									"type":        "integer",
									"description": "resize: box height. crop: region height, clamped to the current height",
								},
								"x": horizontalAnchorSchema(),
								"y": verticalAnchorSchema(),
								"path": map[string]interface{}{
									"type":        "string",
									"description": "watermark: path to the overlay image",
								},
								"data_base64": map[string]interface{}{
									"type":        "string",
									"description": "watermark: base64-encoded overlay image",
								},
							},
							"required": []string{"op"},
						},
					},
					"output": map[string]interface{}{
						"type":        "string",
						"description": "Path to write the result to",
					},
					"overwrite": map[string]interface{}{
						"type":        "boolean",
						"description": "Save the result over the source path",
						"default":     false,
					},
					"format": map[string]interface{}{
						"type":        "string",
						"description": "Output format: jpeg, png or gif. Defaults to the output extension, then JPEG",
					},
					"quality": map[string]interface{}{
						"type":        "integer",
						"description": "JPEG quality 1-100",
					},
					"png_compression": map[string]interface{}{
						"type":        "integer",
						"description": "PNG compression level 0-9",
					},
					"background": map[string]interface{}{
						"type":        "string",
						"description": "Hex color (#RRGGBB) used to flatten transparency for JPEG and GIF output",
					},
					"resampler": map[string]interface{}{
						"type":        "string",
						"description": "Resize filter",
						"enum":        imaging.ResamplerNames(),
					},
				},
				"required": []string{"steps"},
			},
		},
	}
}

// toolNames lists the names of all tools, used in debug output.
func toolNames() string {
	tools := GetToolDefinitions()
	names := make([]string, len(tools))
	for i, t := range tools {
		names[i] = t.Name
	}
	return strings.Join(names, ", ")
}

// handleToolsList returns the list of available tools
func (s *Server) handleToolsList(req *MCPRequest) *MCPResponse {
	if s.cfg.Debug {
		log.Printf("listing tools: %s", toolNames())
	}
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"tools": GetToolDefinitions(),
		},
	}
}
