package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/raywall/dynadapter/condition"
	"github.com/raywall/dynadapter/json/decode"
	"github.com/raywall/dynadapter/pkg/engine"
)

type command func(ctx context.Context, args []string, stdin io.Reader, stdout io.Writer) error

var commands = map[string]command{
	"save":   runSave,
	"get":    runGet,
	"list":   runList,
	"delete": runDelete,
	"filter": runFilter,
}

// open carrega a configuração (arquivo local ou URI remota) e monta o
// serviço com o backend configurado.
func open(ctx context.Context, source string) (*engine.Service, error) {
	cfg, err := engine.NewLoader().Load(ctx, source)
	if err != nil {
		return nil, err
	}
	return engine.New(ctx, cfg)
}

func newFlagSet(name string) (*flag.FlagSet, *string) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	cfg := fs.String("config", "", "Arquivo YAML ou URI (s3://, ssm://, secretsmanager://, dynamodb://) da configuração")
	return fs, cfg
}

func runSave(ctx context.Context, args []string, stdin io.Reader, stdout io.Writer) error {
	fs, cfgPath := newFlagSet("save")
	data := fs.String("data", "", "Item em JSON (lido do stdin quando vazio)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	raw := []byte(*data)
	if len(raw) == 0 {
		var err error
		if raw, err = io.ReadAll(stdin); err != nil {
			return fmt.Errorf("read stdin: %w", err)
		}
	}
	item, err := decode.Object(raw)
	if err != nil {
		return fmt.Errorf("save: %w", err)
	}

	s, err := open(ctx, *cfgPath)
	if err != nil {
		return err
	}
	defer s.Close()

	id, err := s.Items.Save(ctx, item)
	if err != nil {
		return err
	}
	fmt.Fprintln(stdout, id)
	return nil
}

func runGet(ctx context.Context, args []string, _ io.Reader, stdout io.Writer) error {
	fs, cfgPath := newFlagSet("get")
	id := fs.String("id", "", "Id do item")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *id == "" {
		return errors.New("get: flag -id é obrigatória")
	}

	s, err := open(ctx, *cfgPath)
	if err != nil {
		return err
	}
	defer s.Close()

	item, err := s.Items.GetByID(ctx, *id)
	if err != nil {
		return err
	}
	return writeJSON(stdout, item)
}

func runList(ctx context.Context, args []string, _ io.Reader, stdout io.Writer) error {
	fs, cfgPath := newFlagSet("list")
	if err := fs.Parse(args); err != nil {
		return err
	}

	s, err := open(ctx, *cfgPath)
	if err != nil {
		return err
	}
	defer s.Close()

	items, err := s.Items.ListAll(ctx)
	if err != nil {
		return err
	}
	return writeJSON(stdout, items)
}

func runDelete(ctx context.Context, args []string, _ io.Reader, stdout io.Writer) error {
	fs, cfgPath := newFlagSet("delete")
	id := fs.String("id", "", "Id do item")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *id == "" {
		return errors.New("delete: flag -id é obrigatória")
	}

	s, err := open(ctx, *cfgPath)
	if err != nil {
		return err
	}
	defer s.Close()

	deleted, err := s.Items.Delete(ctx, *id)
	if err != nil {
		return err
	}
	fmt.Fprintln(stdout, deleted)
	return nil
}

func runFilter(ctx context.Context, args []string, _ io.Reader, stdout io.Writer) error {
	fs, cfgPath := newFlagSet("filter")
	projection := fs.String("projection", "", "Atributos retornados, separados por vírgula")
	if err := fs.Parse(args); err != nil {
		return err
	}

	spec, err := parseTerms(fs.Args())
	if err != nil {
		return err
	}
	if *projection != "" {
		spec[condition.ProjectionKey] = *projection
	}

	s, err := open(ctx, *cfgPath)
	if err != nil {
		return err
	}
	defer s.Close()

	res, err := s.Items.Filter(ctx, spec)
	if err != nil {
		return err
	}
	if res.Projected {
		return writeJSON(stdout, res.Items)
	}
	return writeJSON(stdout, res.Entities)
}

// parseTerms converte termos `campo__op=<json>` em um Spec. Valores que não
// são JSON válido são usados como string.
func parseTerms(terms []string) (condition.Spec, error) {
	spec := make(condition.Spec, len(terms))
	for _, term := range terms {
		key, raw, found := strings.Cut(term, "=")
		if key == "" {
			return nil, fmt.Errorf("filter: invalid term %q", term)
		}
		if !found {
			spec[key] = nil
			continue
		}
		spec[key] = decode.ValueOrString(raw)
	}
	return spec, nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
