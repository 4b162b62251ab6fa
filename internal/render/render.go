// Package render turns materialized diagram graphs into output
// artifacts. The dot format is produced natively; raster and vector
// formats go through the external Graphviz binary. Formats are rendered
// independently: one failing engine invocation never discards the
// artifacts of the others.
package render

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os/exec"
	"strings"

	"github.com/google/uuid"

	"diagen/internal/diag"
	"diagen/internal/graph"
	"diagen/internal/source"
)

// Format is one requested output format.
type Format string

const (
	FormatDot Format = "dot"
	FormatPNG Format = "png"
	FormatSVG Format = "svg"
	FormatPDF Format = "pdf"
)

// ParseFormat validates a user-supplied format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case FormatDot, FormatPNG, FormatSVG, FormatPDF:
		return f, nil
	default:
		return "", fmt.Errorf("unknown output format %q (want dot, png, svg or pdf)", s)
	}
}

// Artifact is one rendered output with its identity and checksum.
type Artifact struct {
	ID       uuid.UUID
	Diagram  string
	Format   Format
	Bytes    []byte
	Checksum string
}

// Renderer invokes the layout engine. The zero value uses the dot
// binary from PATH and the process working directory.
type Renderer struct {
	// Engine is the Graphviz binary; empty means "dot".
	Engine string
	// Dir is the working directory for engine invocations, normally the
	// attempt's scratch directory.
	Dir string
}

// Render produces one artifact per requested format. Failures are
// reported through rep as render findings; the returned slice holds
// only the formats that succeeded, in request order.
func (r *Renderer) Render(ctx context.Context, g *graph.Diagram, formats []Format, rep diag.Reporter) []Artifact {
	dot := g.Dot()

	var out []Artifact
	for _, f := range formats {
		data, err := r.renderOne(ctx, dot, f)
		if err != nil {
			diag.ReportError(rep, diag.RenderFailed, source.Span{},
				fmt.Sprintf("rendering %q as %s failed: %v", g.Name, f, err))
			continue
		}
		sum := sha256.Sum256(data)
		out = append(out, Artifact{
			ID:       uuid.New(),
			Diagram:  g.Name,
			Format:   f,
			Bytes:    data,
			Checksum: hex.EncodeToString(sum[:]),
		})
	}
	return out
}

func (r *Renderer) renderOne(ctx context.Context, dot []byte, f Format) ([]byte, error) {
	if f == FormatDot {
		return dot, nil
	}

	engine := r.Engine
	if engine == "" {
		engine = "dot"
	}
	cmd := exec.CommandContext(ctx, engine, "-T"+string(f))
	cmd.Dir = r.Dir
	cmd.Stdin = bytes.NewReader(dot)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if msg := firstLine(stderr.String()); msg != "" {
			return nil, fmt.Errorf("%s: %s", err, msg)
		}
		return nil, err
	}
	return stdout.Bytes(), nil
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	return s
}
