package server

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// createTestImageFile creates a solid PNG in a temp directory and returns its path
func createTestImageFile(t *testing.T, width, height int, c color.Color) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "source.png")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("failed to create temp file: %v", err)
	}
	defer f.Close()

	if err := png.Encode(f, solidImage(width, height, c)); err != nil {
		t.Fatalf("failed to encode image: %v", err)
	}
	return path
}

func solidImage(width, height int, c color.Color) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

func pngBase64(t *testing.T, img image.Image) string {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("failed to encode image: %v", err)
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes())
}

func decodeBase64Image(t *testing.T, data string) image.Image {
	t.Helper()
	b, err := base64.StdEncoding.DecodeString(data)
	if err != nil {
		t.Fatalf("invalid base64: %v", err)
	}
	img, _, err := image.Decode(bytes.NewReader(b))
	if err != nil {
		t.Fatalf("failed to decode image: %v", err)
	}
	return img
}

// callTool runs a tools/call request through the server.
func callTool(t *testing.T, s *Server, name string, args interface{}) *MCPResponse {
	t.Helper()

	params := map[string]interface{}{
		"name":      name,
		"arguments": args,
	}
	paramsJSON, err := json.Marshal(params)
	if err != nil {
		t.Fatalf("marshal params: %v", err)
	}

	resp := s.handleRequest(&MCPRequest{
		JSONRPC: "2.0",
		ID:      1,
		Method:  "tools/call",
		Params:  paramsJSON,
	})
	if resp == nil {
		t.Fatal("handleRequest returned nil")
	}
	return resp
}

// callToolResult runs a tool that must succeed and decodes its text content into out.
func callToolResult(t *testing.T, s *Server, name string, args interface{}, out interface{}) {
	t.Helper()

	resp := callTool(t, s, name, args)
	if resp.Error != nil {
		t.Fatalf("%s: unexpected error: %+v", name, resp.Error)
	}
	result := resp.Result.(map[string]interface{})
	content := result["content"].([]map[string]interface{})
	if len(content) != 1 || content[0]["type"] != "text" {
		t.Fatalf("%s: unexpected content %v", name, content)
	}
	if err := json.Unmarshal([]byte(content[0]["text"].(string)), out); err != nil {
		t.Fatalf("%s: decode result: %v", name, err)
	}
}

// callToolError runs a tool that must fail and returns the error details.
func callToolError(t *testing.T, s *Server, name string, args interface{}) string {
	t.Helper()

	resp := callTool(t, s, name, args)
	if resp.Error == nil {
		t.Fatalf("%s: expected error, got result %v", name, resp.Result)
	}
	if resp.Error.Code != -32000 {
		t.Errorf("%s: error code got %d, want -32000", name, resp.Error.Code)
	}
	data, _ := resp.Error.Data.(string)
	return data
}

func TestHandleToolsCall_ImageLoad(t *testing.T) {
	s := New()
	imgPath := createTestImageFile(t, 100, 80, color.NRGBA{255, 0, 0, 255})

	var info struct {
		Width         int    `json:"width"`
		Height        int    `json:"height"`
		Format        string `json:"format"`
		MimeType      string `json:"mime_type"`
		HasAlpha      bool   `json:"has_alpha"`
		FileSizeBytes int64  `json:"file_size_bytes"`
	}
	callToolResult(t, s, "image_load", map[string]interface{}{"path": imgPath}, &info)

	if info.Width != 100 || info.Height != 80 {
		t.Errorf("size: got %dx%d, want 100x80", info.Width, info.Height)
	}
	if info.Format != "png" || info.MimeType != "image/png" {
		t.Errorf("format: got %s (%s), want png (image/png)", info.Format, info.MimeType)
	}
	if info.HasAlpha {
		t.Error("opaque image reported alpha")
	}
	if info.FileSizeBytes <= 0 {
		t.Errorf("file size: got %d", info.FileSizeBytes)
	}
}

func TestHandleToolsCall_ImageDimensions(t *testing.T) {
	s := New()
	imgPath := createTestImageFile(t, 200, 150, color.NRGBA{0, 255, 0, 255})

	var dims struct{ Width, Height int }
	callToolResult(t, s, "image_dimensions", map[string]interface{}{"path": imgPath}, &dims)

	if dims.Width != 200 || dims.Height != 150 {
		t.Errorf("got %dx%d, want 200x150", dims.Width, dims.Height)
	}
}

func TestHandleToolsCall_Errors(t *testing.T) {
	s := New()

	tests := []struct {
		name     string
		tool     string
		args     map[string]interface{}
		contains string
	}{
		{"nonexistent file", "image_load", map[string]interface{}{"path": "/nonexistent/image.png"}, "decode"},
		{"missing path", "image_load", map[string]interface{}{}, "path is required"},
		{"missing path dimensions", "image_dimensions", map[string]interface{}{}, "path is required"},
		{"unknown tool", "image_ocr_full", map[string]interface{}{}, "unknown tool"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := callToolError(t, s, tt.tool, tt.args)
			if !strings.Contains(data, tt.contains) {
				t.Errorf("error %q does not mention %q", data, tt.contains)
			}
		})
	}
}

func TestHandleToolsCall_InvalidParams(t *testing.T) {
	s := New()
	resp := s.handleToolsCall(&MCPRequest{
		JSONRPC: "2.0",
		ID:      1,
		Params:  json.RawMessage(`{"name": 42}`),
	})

	if resp.Error == nil {
		t.Fatal("expected error for malformed params")
	}
	if resp.Error.Code != -32602 {
		t.Errorf("Error code: got %d, want -32602", resp.Error.Code)
	}
}

func TestHandleToolsCall_CalculateResize(t *testing.T) {
	tests := []struct {
		width, height, origW, origH int
		wantW, wantH                int
	}{
		{400, 300, 1200, 900, 400, 300},
		{400, 200, 1200, 900, 266, 200},
		{1600, 450, 1200, 900, 600, 450},
		{400, 300, 800, 531, 399, 265},
		{400, 300, 1000, 500, 400, 200},
		{2000, 2000, 1200, 900, 1200, 900},
		{100, 0, 400, 200, 0, 0},
	}

	s := New()
	for _, tt := range tests {
		var dims struct{ Width, Height int }
		callToolResult(t, s, "image_calculate_resize", map[string]interface{}{
			"width":       tt.width,
			"height":      tt.height,
			"orig_width":  tt.origW,
			"orig_height": tt.origH,
		}, &dims)

		if dims.Width != tt.wantW || dims.Height != tt.wantH {
			t.Errorf("fit %dx%d into %dx%d: got %dx%d, want %dx%d",
				tt.origW, tt.origH, tt.width, tt.height, dims.Width, dims.Height, tt.wantW, tt.wantH)
		}
	}
}

func TestHandleToolsCall_CalculateOffset(t *testing.T) {
	tests := []struct {
		name         string
		x, y         interface{}
		wantX, wantY int
	}{
		{"omitted", nil, nil, 0, 0},
		{"keywords", "center", "bottom", 150, 150},
		{"left top", "left", "top", 0, 0},
		{"right middle", "right", "middle", 300, 75},
		{"percent", "30%", "50%", 70, 75},
		{"pixel strings", "10", "-5", 10, 145},
		{"pixel integers", 10, -5, 10, 145},
	}

	s := New()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := map[string]interface{}{
				"container_width":  400,
				"container_height": 200,
				"item_width":       100,
				"item_height":      50,
			}
			if tt.x != nil {
				args["x"] = tt.x
			}
			if tt.y != nil {
				args["y"] = tt.y
			}

			var pt struct{ X, Y int }
			callToolResult(t, s, "image_calculate_offset", args, &pt)
			if pt.X != tt.wantX || pt.Y != tt.wantY {
				t.Errorf("got (%d,%d), want (%d,%d)", pt.X, pt.Y, tt.wantX, tt.wantY)
			}
		})
	}
}

func TestHandleToolsCall_CalculateOffset_InvalidAnchor(t *testing.T) {
	s := New()

	for _, args := range []map[string]interface{}{
		{"x": "top"},
		{"y": "left"},
		{"x": "150%"},
		{"x": "diagonal"},
		{"y": 2.5},
	} {
		args["container_width"] = 100
		args["container_height"] = 100
		data := callToolError(t, s, "image_calculate_offset", args)
		if !strings.Contains(data, "invalid anchor") {
			t.Errorf("args %v: error %q does not mention invalid anchor", args, data)
		}
	}
}

func TestHandleToolsCall_TransformInline(t *testing.T) {
	s := New()
	imgPath := createTestImageFile(t, 400, 200, color.NRGBA{0, 0, 255, 255})

	var result TransformResult
	callToolResult(t, s, "image_transform", map[string]interface{}{
		"path":   imgPath,
		"format": "png",
		"steps": []map[string]interface{}{
			{"op": "resize", "width": 200, "height": 200},
			{"op": "crop", "width": 100, "height": 100, "x": "center", "y": "center"},
		},
	}, &result)

	if result.OriginalWidth != 400 || result.OriginalHeight != 200 {
		t.Errorf("original: got %dx%d, want 400x200", result.OriginalWidth, result.OriginalHeight)
	}
	if result.Width != 100 || result.Height != 100 {
		t.Errorf("result: got %dx%d, want 100x100", result.Width, result.Height)
	}
	if result.Steps != 2 {
		t.Errorf("steps: got %d, want 2", result.Steps)
	}
	if result.Format != "png" || result.MimeType != "image/png" {
		t.Errorf("format: got %s (%s)", result.Format, result.MimeType)
	}
	if result.Output != "" {
		t.Errorf("inline result should not report an output path, got %q", result.Output)
	}

	img := decodeBase64Image(t, result.ImageBase64)
	if b := img.Bounds(); b.Dx() != 100 || b.Dy() != 100 {
		t.Errorf("decoded size: got %dx%d, want 100x100", b.Dx(), b.Dy())
	}
}

func TestHandleToolsCall_TransformDefaultsToJPEG(t *testing.T) {
	s := New()
	imgPath := createTestImageFile(t, 64, 32, color.NRGBA{200, 200, 200, 255})

	var result TransformResult
	callToolResult(t, s, "image_transform", map[string]interface{}{
		"path":    imgPath,
		"steps":   []map[string]interface{}{{"op": "resize", "width": 32, "height": 32}},
		"quality": 90,
	}, &result)

	if result.Format != "jpeg" || result.MimeType != "image/jpg" {
		t.Errorf("format: got %s (%s), want jpeg (image/jpg)", result.Format, result.MimeType)
	}
	b, err := base64.StdEncoding.DecodeString(result.ImageBase64)
	if err != nil {
		t.Fatalf("invalid base64: %v", err)
	}
	if !bytes.HasPrefix(b, []byte{0xFF, 0xD8}) {
		t.Error("inline data is not a JPEG stream")
	}
}

func TestHandleToolsCall_TransformToOutput(t *testing.T) {
	s := New()
	imgPath := createTestImageFile(t, 400, 200, color.NRGBA{255, 255, 255, 255})
	outPath := filepath.Join(t.TempDir(), "thumb.png")

	var result TransformResult
	callToolResult(t, s, "image_transform", map[string]interface{}{
		"path":            imgPath,
		"output":          outPath,
		"png_compression": 9,
		"resampler":       "bild-linear",
		"steps":           []map[string]interface{}{{"op": "resize", "width": 100, "height": 100}},
	}, &result)

	if result.Output != outPath {
		t.Errorf("output: got %q, want %q", result.Output, outPath)
	}
	if result.Format != "png" {
		t.Errorf("format: got %s, want png from the output extension", result.Format)
	}
	if result.ImageBase64 != "" {
		t.Error("saved result should not carry inline data")
	}

	var dims struct{ Width, Height int }
	callToolResult(t, s, "image_dimensions", map[string]interface{}{"path": outPath}, &dims)
	if dims.Width != 100 || dims.Height != 50 {
		t.Errorf("written file: got %dx%d, want 100x50", dims.Width, dims.Height)
	}

	// The source is untouched.
	callToolResult(t, s, "image_dimensions", map[string]interface{}{"path": imgPath}, &dims)
	if dims.Width != 400 || dims.Height != 200 {
		t.Errorf("source: got %dx%d, want 400x200", dims.Width, dims.Height)
	}
}

func TestHandleToolsCall_TransformOverwrite(t *testing.T) {
	s := New()
	imgPath := createTestImageFile(t, 400, 200, color.NRGBA{0, 128, 0, 255})

	// Prime the cache with the original size.
	var dims struct{ Width, Height int }
	callToolResult(t, s, "image_dimensions", map[string]interface{}{"path": imgPath}, &dims)

	var result TransformResult
	callToolResult(t, s, "image_transform", map[string]interface{}{
		"path":      imgPath,
		"overwrite": true,
		"steps":     []map[string]interface{}{{"op": "crop", "width": 300, "height": 200}},
	}, &result)

	if result.Output != imgPath {
		t.Errorf("output: got %q, want source path %q", result.Output, imgPath)
	}

	callToolResult(t, s, "image_dimensions", map[string]interface{}{"path": imgPath}, &dims)
	if dims.Width != 300 || dims.Height != 200 {
		t.Errorf("after overwrite: got %dx%d, want 300x200", dims.Width, dims.Height)
	}
}

func TestHandleToolsCall_TransformWatermarkFromData(t *testing.T) {
	s := New()
	white := color.NRGBA{255, 255, 255, 255}
	red := color.NRGBA{255, 0, 0, 255}

	var result TransformResult
	callToolResult(t, s, "image_transform", map[string]interface{}{
		"data_base64": pngBase64(t, solidImage(100, 100, white)),
		"format":      "png",
		"steps": []map[string]interface{}{
			{"op": "watermark", "data_base64": pngBase64(t, solidImage(10, 10, red)), "x": "right", "y": "bottom"},
		},
	}, &result)

	img := decodeBase64Image(t, result.ImageBase64)
	if got := color.NRGBAModel.Convert(img.At(95, 95)); got != red {
		t.Errorf("watermark corner: got %v, want %v", got, red)
	}
	if got := color.NRGBAModel.Convert(img.At(5, 5)); got != white {
		t.Errorf("untouched corner: got %v, want %v", got, white)
	}
	if got := color.NRGBAModel.Convert(img.At(89, 89)); got != white {
		t.Errorf("just outside watermark: got %v, want %v", got, white)
	}
}

func TestHandleToolsCall_TransformErrors(t *testing.T) {
	dir := t.TempDir()
	imgPath := createTestImageFile(t, 100, 100, color.NRGBA{0, 0, 0, 255})
	outPath := filepath.Join(dir, "never-written.png")

	tests := []struct {
		name     string
		args     map[string]interface{}
		contains string
	}{
		{
			name:     "no source",
			args:     map[string]interface{}{"steps": []interface{}{}},
			contains: "path or data_base64 is required",
		},
		{
			name: "both sources",
			args: map[string]interface{}{
				"path":        imgPath,
				"data_base64": "AAAA",
				"steps":       []interface{}{},
			},
			contains: "mutually exclusive",
		},
		{
			name:     "bad base64",
			args:     map[string]interface{}{"data_base64": "%%%", "steps": []interface{}{}},
			contains: "invalid data_base64",
		},
		{
			name:     "undecodable data",
			args:     map[string]interface{}{"data_base64": base64.StdEncoding.EncodeToString([]byte("not an image")), "steps": []interface{}{}},
			contains: "decode",
		},
		{
			name: "unknown op",
			args: map[string]interface{}{
				"path":   imgPath,
				"output": outPath,
				"steps":  []map[string]interface{}{{"op": "rotate"}},
			},
			contains: "unknown op",
		},
		{
			name: "invalid anchor",
			args: map[string]interface{}{
				"path":   imgPath,
				"output": outPath,
				"steps":  []map[string]interface{}{{"op": "crop", "width": 10, "height": 10, "x": "bottom"}},
			},
			contains: "invalid anchor",
		},
		{
			name: "watermark without image",
			args: map[string]interface{}{
				"path":   imgPath,
				"output": outPath,
				"steps":  []map[string]interface{}{{"op": "watermark"}},
			},
			contains: "watermark",
		},
		{
			name: "unknown format",
			args: map[string]interface{}{
				"path":   imgPath,
				"format": "tiff",
				"steps":  []interface{}{},
			},
			contains: "unknown image format",
		},
		{
			name: "unknown resampler",
			args: map[string]interface{}{
				"path":      imgPath,
				"resampler": "sharpest",
				"steps":     []interface{}{},
			},
			contains: "resampler",
		},
		{
			name: "output and overwrite",
			args: map[string]interface{}{
				"path":      imgPath,
				"output":    outPath,
				"overwrite": true,
				"steps":     []interface{}{},
			},
			contains: "mutually exclusive",
		},
		{
			name: "overwrite without source path",
			args: map[string]interface{}{
				"data_base64": pngBase64(t, solidImage(4, 4, color.NRGBA{0, 0, 0, 255})),
				"overwrite":   true,
				"steps":       []interface{}{},
			},
			contains: "no output file",
		},
		{
			name: "crop outside the image",
			args: map[string]interface{}{
				"path":   imgPath,
				"output": outPath,
				"steps":  []map[string]interface{}{{"op": "crop", "width": 10, "height": 10, "x": 500}},
			},
			contains: "step 1 crop",
		},
	}

	s := New()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := callToolError(t, s, "image_transform", tt.args)
			if !strings.Contains(data, tt.contains) {
				t.Errorf("error %q does not mention %q", data, tt.contains)
			}
		})
	}

	if _, err := os.Stat(outPath); !os.IsNotExist(err) {
		t.Errorf("failed transforms must not write output, stat err = %v", err)
	}
}

func TestExecuteTool_AllTools(t *testing.T) {
	s := New()
	imgPath := createTestImageFile(t, 20, 20, color.NRGBA{10, 20, 30, 255})

	args := map[string]string{
		"image_load":             `{"path": "` + imgPath + `"}`,
		"image_dimensions":       `{"path": "` + imgPath + `"}`,
		"image_calculate_resize": `{"width": 10, "height": 10, "orig_width": 20, "orig_height": 20}`,
		"image_calculate_offset": `{"x": "center", "y": "center", "container_width": 20, "container_height": 20, "item_width": 10, "item_height": 10}`,
		"image_transform":        `{"path": "` + imgPath + `", "steps": [{"op": "resize", "width": 10, "height": 10}]}`,
	}

	for _, tool := range GetToolDefinitions() {
		t.Run(tool.Name, func(t *testing.T) {
			a, ok := args[tool.Name]
			if !ok {
				t.Fatalf("no test arguments for %s", tool.Name)
			}
			result, err := s.executeTool(tool.Name, json.RawMessage(a))
			if err != nil {
				t.Fatalf("executeTool: %v", err)
			}
			if result == nil {
				t.Error("executeTool returned nil result")
			}
		})
	}
}

func TestExecuteTool_InvalidJSON(t *testing.T) {
	s := New()
	for _, tool := range GetToolDefinitions() {
		if _, err := s.executeTool(tool.Name, json.RawMessage(`{not json`)); err == nil {
			t.Errorf("%s: expected error for invalid JSON", tool.Name)
		}
	}
}
