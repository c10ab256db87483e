package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/graphql-go/graphql"

	"github.com/grove-cms/grove/pkg/contentgraph"
	"github.com/grove-cms/grove/pkg/contentgraph/api"
	"github.com/grove-cms/grove/pkg/contentgraph/collection"
	"github.com/grove-cms/grove/pkg/contentgraph/config"
	"github.com/grove-cms/grove/pkg/contentgraph/fieldgroups"
	"github.com/grove-cms/grove/pkg/contentgraph/graphschema"
	"github.com/grove-cms/grove/pkg/contentgraph/normalize"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("load configuration", "error", err)
		os.Exit(1)
	}
	level, _ := cfg.SlogLevel()
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	schema, err := buildSchema(cfg, logger)
	if err != nil {
		logger.Error("build schema", "error", err)
		os.Exit(1)
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Mount("/", api.NewGraphQLHandler(schema, logger).Routes())

	httpServer := &http.Server{
		Addr:    cfg.Addr(),
		Handler: r,
	}

	go func() {
		logger.Info("server starting", "addr", cfg.Addr(), "environment", cfg.Environment)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		logger.Error("server shutdown", "error", err)
	}
}

// buildSchema walks the full phase sequence: populate stores, register every
// type source, run the wiring pass, apply the resolver overlay, freeze.
func buildSchema(cfg *config.ServerConfig, logger *slog.Logger) (graphql.Schema, error) {
	ctx := context.Background()

	authors, err := contentgraph.NewStore(
		&contentgraph.ContentType{Name: "Author", CamelCaseFields: true},
		contentgraph.WithCollection(collection.New()),
		contentgraph.WithNormalizer(normalize.New()),
		contentgraph.WithLogger(logger),
	)
	if err != nil {
		return graphql.Schema{}, err
	}

	posts, err := contentgraph.NewStore(
		&contentgraph.ContentType{
			Name: "Post",
			References: map[string]contentgraph.ReferenceSpec{
				"author": {TypeName: "Author"},
			},
			ExtraFields: map[string]contentgraph.FieldSpec{
				"publishedAt": {Type: "Date"},
				"cover":       {Type: "File"},
				"title":       {Type: "String"},
				"body":        {Type: "String"},
			},
			CamelCaseFields: true,
			AssetsContext:   cfg.AssetsContext,
		},
		contentgraph.WithCollection(collection.New()),
		contentgraph.WithNormalizer(normalize.New()),
		contentgraph.WithLogger(logger),
	)
	if err != nil {
		return graphql.Schema{}, err
	}
	authors.AddSchemaField("name", contentgraph.FieldSpec{Type: "String"})

	// Phase 1: content discovery.
	for _, raw := range seedContent() {
		store := posts
		if raw["type"] == "author" {
			store = authors
		}
		delete(raw, "type")
		if _, err := store.AddNode(ctx, raw); err != nil {
			return graphql.Schema{}, err
		}
	}

	// Phase 2: type registration from every source.
	reg := graphschema.NewRegistry(graphschema.WithRegistryLogger(logger))
	if err := reg.RegisterNodeType(authors); err != nil {
		return graphql.Schema{}, err
	}
	if err := reg.RegisterNodeType(posts); err != nil {
		return graphql.Schema{}, err
	}
	extraTypes, err := cfg.ContentTypeDefs()
	if err != nil {
		return graphql.Schema{}, err
	}
	for i := range extraTypes {
		ct := extraTypes[i]
		store, err := contentgraph.NewStore(&ct,
			contentgraph.WithCollection(collection.New()),
			contentgraph.WithNormalizer(normalize.New()),
			contentgraph.WithLogger(logger),
		)
		if err != nil {
			return graphql.Schema{}, err
		}
		if err := reg.RegisterNodeType(store); err != nil {
			return graphql.Schema{}, err
		}
	}
	if err := reg.AddTypes(`
		type Site {
			title: String
			baseURL: String
		}
	`); err != nil {
		return graphql.Schema{}, err
	}
	if err := reg.AddRootFields(map[string]*graphschema.Field{
		"site": {
			Name: "site",
			Type: graphschema.TypeRef{Named: "Site"},
			Resolver: func(graphschema.ResolveContext) (any, error) {
				return map[string]any{"title": "Grove", "baseURL": "/"}, nil
			},
		},
	}); err != nil {
		return graphql.Schema{}, err
	}
	if err := fieldgroups.Apply(reg, fieldgroups.NodeFields(reg), fieldgroups.Meta(reg)); err != nil {
		return graphql.Schema{}, err
	}

	// Phase 3: the fixed-point wiring pass.
	reg.WireFieldResolvers()

	// Phase 4: resolver overlay.
	if err := reg.AddResolvers(map[string]map[string]graphschema.ResolverSpec{
		"Post": {
			"excerpt": {
				Type: "String",
				Args: map[string]graphschema.Argument{
					"length": {Type: graphschema.TypeRef{Named: "Int"}, Default: 120},
				},
				Resolve: excerptResolver,
			},
		},
	}); err != nil {
		return graphql.Schema{}, err
	}

	// Phase 5: freeze.
	return reg.Build()
}

func excerptResolver(rc graphschema.ResolveContext) (any, error) {
	body, _ := rc.SourceField("body")
	text, _ := body.(string)
	length := 120
	if l, ok := rc.Args["length"].(int); ok && l > 0 {
		length = l
	}
	if len(text) <= length {
		return text, nil
	}
	return strings.TrimSpace(text[:length]) + "…", nil
}

func seedContent() []map[string]any {
	return []map[string]any{
		{"type": "author", "id": "a1", "name": "Ada Lovelace"},
		{"type": "author", "id": "a2", "name": "Grace Hopper"},
		{
			"id": "p1", "title": "Composable Schemas",
			"author": "a1", "published_at": "2024-05-01T00:00:00Z",
			"cover": "covers/composable.png",
			"body":  "Schema composition defers reference wiring until every type is known.",
		},
		{
			"id": "p2", "title": "Nodes All The Way Down",
			"author": "a2", "published_at": "2024-06-15T00:00:00Z",
			"body": "Every document is a node; every node is queryable.",
		},
	}
}
