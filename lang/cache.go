package lang

import (
	"context"
	"io"
	"log/slog"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/klauspost/readahead"
	"github.com/zeebo/xxh3"
)

// maxCachedParses bounds parseCache. A lookup that would exceed it empties
// the cache first.
const maxCachedParses = 256

// parseCache maps a source hash to the *parsed entry for that source. Syntax
// trees are immutable, so one parse is shared by every caller. cachedParses
// counts its entries.
var (
	parseCache   sync.Map
	cachedParses atomic.Int64
)

type parsed struct {
	once  sync.Once
	stmts []Node
	diags []Diagnostic
	toks  int
}

// ParseReader parses the content of r. Parses are cached by content, so
// reading identical source again reuses the earlier syntax tree.
func ParseReader(ctx context.Context, r io.Reader, opts ...Option) (*AST, error) {
	cfg := makeConfig(opts...)

	ra := readahead.NewReader(r)
	defer ra.Close()

	data, err := io.ReadAll(ra)
	if err != nil {
		return nil, ErrReadInput.Wrap(err).With(slog.String("source", cfg.name))
	}

	return parseCached(ctx, cfg, string(data))
}

func parseCached(ctx context.Context, cfg config, src string) (*AST, error) {
	hash := xxh3.HashString(src)
	key := strconv.FormatUint(hash, 36)

	value, hit := parseCache.Load(key)
	if !hit {
		if cachedParses.Load() >= maxCachedParses {
			cfg.logger.DebugContext(ctx, "parse cache full",
				slog.Int("max_entries", maxCachedParses),
			)
			ClearCache()
		}

		value, hit = parseCache.LoadOrStore(key, new(parsed))
		if !hit {
			cachedParses.Add(1)
		}
	}

	entry := value.(*parsed) //nolint:forcetypeassert // only *parsed is stored

	cfg.logger.TraceContext(ctx, "cache lookup",
		slog.String("source_hash", strconv.FormatUint(hash, 16)),
		slog.Int("source_bytes", len(src)),
		slog.Bool("cache_hit", hit),
	)

	entry.once.Do(func() {
		toks, lexDiags := Lex(src)
		stmts, parseDiags := ParseTokens(toks)

		entry.stmts = stmts
		entry.diags = sortDiagnostics(lexDiags, parseDiags)
		entry.toks = len(toks)
	})

	return makeAST(ctx, cfg, src, entry.stmts, entry.diags, entry.toks)
}

// ClearCache removes every cached parse.
func ClearCache() {
	parseCache.Clear()
	cachedParses.Store(0)
}
