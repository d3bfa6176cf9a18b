// Package vectorutils is the vector store utility package
package vectorutils

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"

	"github.com/0xdany/RAG-PDF-URLs/pkg/vector"
	"github.com/0xdany/RAG-PDF-URLs/pkg/vector/chroma"
	"github.com/0xdany/RAG-PDF-URLs/pkg/vector/memvec"
	"github.com/0xdany/RAG-PDF-URLs/pkg/vector/qdrantvec"
	"github.com/0xdany/RAG-PDF-URLs/pkg/vector/sqlitevec"
)

type NewDriverOpts struct {
	ProviderType string

	// Target is provider-specific: a file path for sqlite, a URL for
	// chroma or qdrant, unused for memory.
	Target     string
	Collection string
	Dimensions uint
	APIKey     string
	Logger     *slog.Logger
}

func NewDriver(ctx context.Context, o *NewDriverOpts) (vector.Driver, error) {
	switch o.ProviderType {
	case "memory":
		return memvec.NewDriver(memvec.Config{
			Dimensions: o.Dimensions,
		}, o.Logger), nil
	case "sqlite":
		return sqlitevec.NewDriver(sqlitevec.Config{
			DBPath:     o.Target,
			Dimensions: o.Dimensions,
		}, o.Logger)
	case "chroma":
		return chroma.NewDriver(chroma.Config{
			URL:            o.Target,
			CollectionName: o.Collection,
		}, o.Logger)
	case "qdrant":
		host, port, err := splitHostPort(o.Target)
		if err != nil {
			return nil, fmt.Errorf("parsing qdrant target: %w", err)
		}
		return qdrantvec.NewDriver(ctx, qdrantvec.Config{
			Host:           host,
			Port:           port,
			APIKey:         o.APIKey,
			CollectionName: o.Collection,
			Dimensions:     o.Dimensions,
		}, o.Logger)
	default:
		return nil, fmt.Errorf("unsupported vector store provider: %s", o.ProviderType)
	}
}

// splitHostPort parses a qdrant target like "localhost:6334" or
// "qdrant://host:port" into host and port. Port zero means default.
func splitHostPort(target string) (string, int, error) {
	if target == "" {
		return "", 0, fmt.Errorf("qdrant target is required")
	}

	// Accept bare host, host:port, or a URL form.
	u, err := url.Parse(target)
	if err == nil && u.Host != "" {
		target = u.Host
	}

	host := target
	port := 0
	if h, p, err := splitLast(target); err == nil {
		host = h
		port, err = strconv.Atoi(p)
		if err != nil {
			return "", 0, fmt.Errorf("invalid port %q", p)
		}
	}

	return host, port, nil
}

// splitLast splits host:port on the final colon.
func splitLast(s string) (string, string, error) {
	for i := len(s) - 1; i >= 0; i-- {
		if s[i] == ':' {
			return s[:i], s[i+1:], nil
		}
	}
	return "", "", fmt.Errorf("no port in %q", s)
}
