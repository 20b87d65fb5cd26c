package server

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log"
	"strconv"
	"strings"

	"github.com/ironsheep/image-transform-mcp/internal/imaging"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "image_load", "image_transform").
	Name string `json:"name"`

	// Arguments contains the tool-specific parameters as JSON.
	Arguments json.RawMessage `json:"arguments"`
}

// handleToolsCall processes a tools/call request and executes the specified tool.
//
// The response wraps the tool result in MCP's content format:
//
//	{
//	  "content": [{"type": "text", "text": "<JSON result>"}]
//	}
//
// Tool execution errors return a JSON-RPC error response with code -32000.
func (s *Server) handleToolsCall(req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
	}

	result, err := s.executeTool(params.Name, params.Arguments)
	if err != nil {
		if s.cfg.Debug {
			log.Printf("tool %s failed: %v", params.Name, err)
		}
		return s.errorResponse(req.ID, -32000, "Tool execution failed", err.Error())
	}

	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"content": []map[string]interface{}{
				{
					"type": "text",
					"text": mustMarshalJSON(result),
				},
			},
		},
	}
}

// executeTool dispatches tool execution to the appropriate handler function.
func (s *Server) executeTool(name string, args json.RawMessage) (interface{}, error) {
	switch name {
	// Basic Image Information
	case "image_load":
		return s.handleImageLoad(args)
	case "image_dimensions":
		return s.handleImageDimensions(args)

	// Geometry
	case "image_calculate_resize":
		return s.handleCalculateResize(args)
	case "image_calculate_offset":
		return s.handleCalculateOffset(args)

	// Pipeline
	case "image_transform":
		return s.handleImageTransform(args)

	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

// errorResponse creates a JSON-RPC error response with the given details.
func (s *Server) errorResponse(id interface{}, code int, message, data string) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error: &MCPError{
			Code:    code,
			Message: message,
			Data:    data,
		},
	}
}

// mustMarshalJSON converts a value to pretty-printed JSON string.
// Panics are suppressed; on marshal failure, returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

// === Basic Image Information Handlers ===

type imageLoadArgs struct {
	Path string `json:"path"`
}

func (a imageLoadArgs) validate() error {
	if a.Path == "" {
		return fmt.Errorf("path is required")
	}
	return nil
}

func (s *Server) handleImageLoad(args json.RawMessage) (interface{}, error) {
	var a imageLoadArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if err := a.validate(); err != nil {
		return nil, err
	}
	return imaging.LoadImageInfo(s.cache, a.Path)
}

func (s *Server) handleImageDimensions(args json.RawMessage) (interface{}, error) {
	var a imageLoadArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if err := a.validate(); err != nil {
		return nil, err
	}
	return imaging.GetDimensions(s.cache, a.Path)
}

// === Geometry Handlers ===

type calculateResizeArgs struct {
	Width          int `json:"width"`
	Height         int `json:"height"`
	OriginalWidth  int `json:"orig_width"`
	OriginalHeight int `json:"orig_height"`
}

func (s *Server) handleCalculateResize(args json.RawMessage) (interface{}, error) {
	var a calculateResizeArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	w, h := imaging.Fit(a.Width, a.Height, a.OriginalWidth, a.OriginalHeight)
	return &imaging.DimensionsResult{Width: w, Height: h}, nil
}

type calculateOffsetArgs struct {
	X               json.RawMessage `json:"x"`
	Y               json.RawMessage `json:"y"`
	ContainerWidth  int             `json:"container_width"`
	ContainerHeight int             `json:"container_height"`
	ItemWidth       int             `json:"item_width"`
	ItemHeight      int             `json:"item_height"`
}

// OffsetResult is the top-left corner computed for an anchored item.
type OffsetResult struct {
	X int `json:"x"`
	Y int `json:"y"`
}

func (s *Server) handleCalculateOffset(args json.RawMessage) (interface{}, error) {
	var a calculateOffsetArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	x, y, err := parseAnchors(a.X, a.Y)
	if err != nil {
		return nil, err
	}
	pt := imaging.ResolveOffset(x, y, a.ContainerWidth, a.ContainerHeight, a.ItemWidth, a.ItemHeight)
	return &OffsetResult{X: pt.X, Y: pt.Y}, nil
}

// parseAnchor accepts a JSON string ("center", "30%", "-10") or integer.
// A missing or null value yields an unset anchor.
func parseAnchor(axis imaging.Axis, raw json.RawMessage) (imaging.Anchor, error) {
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" || trimmed == "null" {
		return imaging.Anchor{}, nil
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return imaging.ParseAnchor(axis, s)
	}

	n, err := strconv.Atoi(trimmed)
	if err != nil {
		return imaging.Anchor{}, fmt.Errorf("%w: %s", imaging.ErrInvalidAnchor, trimmed)
	}
	return imaging.Pixels(n), nil
}

func parseAnchors(x, y json.RawMessage) (imaging.Anchor, imaging.Anchor, error) {
	ax, err := parseAnchor(imaging.Horizontal, x)
	if err != nil {
		return imaging.Anchor{}, imaging.Anchor{}, fmt.Errorf("x: %w", err)
	}
	ay, err := parseAnchor(imaging.Vertical, y)
	if err != nil {
		return imaging.Anchor{}, imaging.Anchor{}, fmt.Errorf("y: %w", err)
	}
	return ax, ay, nil
}

// === Pipeline Handlers ===

type transformStepArgs struct {
	Op         string          `json:"op"`
	Width      int             `json:"width"`
	Height     int             `json:"height"`
	X          json.RawMessage `json:"x"`
	Y          json.RawMessage `json:"y"`
	Path       string          `json:"path"`
	DataBase64 string          `json:"data_base64"`
}

type imageTransformArgs struct {
	Path           string              `json:"path"`
	DataBase64     string              `json:"data_base64"`
	Steps          []transformStepArgs `json:"steps"`
	Output         string              `json:"output"`
	Overwrite      bool                `json:"overwrite"`
	Format         string              `json:"format"`
	Quality        int                 `json:"quality"`
	PNGCompression *int                `json:"png_compression"`
	Background     string              `json:"background"`
	Resampler      string              `json:"resampler"`
}

// TransformResult describes the image produced by image_transform.
type TransformResult struct {
	OriginalWidth  int    `json:"original_width"`
	OriginalHeight int    `json:"original_height"`
	Width          int    `json:"width"`
	Height         int    `json:"height"`
	Steps          int    `json:"steps"`
	Format         string `json:"format"`
	MimeType       string `json:"mime_type"`
	Output         string `json:"output,omitempty"`
	ImageBase64    string `json:"image_base64,omitempty"`
}

// decodeSource returns a Source for a path or inline base64 data.
func decodeSource(path, data string) (imaging.Source, error) {
	switch {
	case path != "" && data != "":
		return nil, fmt.Errorf("path and data_base64 are mutually exclusive")
	case path != "":
		return imaging.FileSource(path), nil
	case data != "":
		b, err := base64.StdEncoding.DecodeString(data)
		if err != nil {
			return nil, fmt.Errorf("invalid data_base64: %w", err)
		}
		return imaging.BytesSource(b), nil
	}
	return nil, fmt.Errorf("path or data_base64 is required")
}

// buildPipeline converts step arguments into a pipeline. All anchors are
// parsed here so that a malformed step fails before any raster work.
func buildPipeline(steps []transformStepArgs) (imaging.Pipeline, error) {
	var p imaging.Pipeline
	for i, st := range steps {
		x, y, err := parseAnchors(st.X, st.Y)
		if err != nil {
			return p, fmt.Errorf("step %d: %w", i+1, err)
		}

		switch strings.ToLower(st.Op) {
		case "resize":
			p = p.Resize(st.Width, st.Height)
		case "crop":
			p = p.Crop(st.Width, st.Height, x, y)
		case "watermark":
			src, err := decodeSource(st.Path, st.DataBase64)
			if err != nil {
				return p, fmt.Errorf("step %d: watermark: %w", i+1, err)
			}
			p = p.Watermark(src, x, y)
		default:
			return p, fmt.Errorf("step %d: unknown op %q (want resize, crop or watermark)", i+1, st.Op)
		}
	}
	return p, nil
}

func (s *Server) encodeOptions(a imageTransformArgs) []imaging.EncodeOption {
	quality := s.cfg.JPEGQuality
	if a.Quality > 0 {
		quality = a.Quality
	}
	compression := s.cfg.PNGCompression
	if a.PNGCompression != nil {
		compression = *a.PNGCompression
	}
	return []imaging.EncodeOption{
		imaging.WithJPEGQuality(quality),
		imaging.WithPNGCompression(compression),
		imaging.WithBackground(a.Background),
	}
}

func (s *Server) handleImageTransform(args json.RawMessage) (interface{}, error) {
	var a imageTransformArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}

	format, err := imaging.ParseFormat(a.Format)
	if err != nil {
		return nil, err
	}
	resamplerName := a.Resampler
	if resamplerName == "" {
		resamplerName = s.cfg.Resampler
	}
	resampler, err := imaging.ResamplerByName(resamplerName)
	if err != nil {
		return nil, err
	}
	pipeline, err := buildPipeline(a.Steps)
	if err != nil {
		return nil, err
	}
	if a.Overwrite && a.Output != "" {
		return nil, fmt.Errorf("output and overwrite are mutually exclusive")
	}

	src, err := decodeSource(a.Path, a.DataBase64)
	if err != nil {
		return nil, err
	}
	var img *imaging.Image
	if a.Path != "" {
		img, err = s.cache.Open(a.Path)
	} else {
		img, err = imaging.New(src)
	}
	if err != nil {
		return nil, err
	}
	img.SetResampler(resampler).SetPipeline(pipeline)

	result := &TransformResult{
		OriginalWidth:  img.Width(),
		OriginalHeight: img.Height(),
		Steps:          pipeline.Len(),
	}
	opts := s.encodeOptions(a)

	switch {
	case a.Output != "" || a.Overwrite:
		if err := img.Save(a.Output, format, opts...); err != nil {
			return nil, err
		}
		result.Output = a.Output
		if result.Output == "" {
			result.Output = img.SourcePath()
		}
		format = imaging.OutputFormat(result.Output, format)
		s.cache.Evict(result.Output)
	default:
		var buf bytes.Buffer
		format, err = img.Show(&buf, format, opts...)
		if err != nil {
			return nil, err
		}
		result.ImageBase64 = base64.StdEncoding.EncodeToString(buf.Bytes())
	}

	bounds := img.Raster().Bounds()
	result.Width = bounds.Dx()
	result.Height = bounds.Dy()
	result.Format = format.String()
	result.MimeType = format.ContentType()

	if s.cfg.Debug {
		log.Printf("transformed %dx%d -> %dx%d (%d steps, %s)",
			result.OriginalWidth, result.OriginalHeight, result.Width, result.Height, result.Steps, result.Format)
	}
	return result, nil
}
