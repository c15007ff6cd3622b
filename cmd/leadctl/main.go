package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/ettle/strcase"
	"gopkg.in/yaml.v3"

	leads "github.com/goliatone/go-leads/components/leads"
	"github.com/goliatone/go-leads/components/leads/commands"
	"github.com/goliatone/go-leads/pkg/sheets"
)

type cli struct {
	Export   exportCmd   `cmd:"" help:"Fetch every lead from the backend and render a CSV export for a date range."`
	Preset   presetCmd   `cmd:"" help:"Manage saved filter presets in a local state file."`
	Manifest manifestCmd `cmd:"" help:"Validate and inspect widget manifest files."`
	Scaffold scaffoldCmd `cmd:"" help:"Scaffold a widget definition, provider stub, and manifest entry."`
}

func main() {
	ctx := kong.Parse(&cli{},
		kong.Description("Lead dashboard utility: exports, filter presets, and widget manifests."),
		kong.UsageOnError(),
	)
	err := ctx.Run(context.Background())
	ctx.FatalIfErrorf(err)
}

type exportCmd struct {
	BaseURL  string `required:"" name:"base-url" env:"LEADS_API_URL" help:"Base URL of the spreadsheet API."`
	APIKey   string `name:"api-key" env:"LEADS_API_KEY" help:"Bearer token for the spreadsheet API."`
	From     string `required:"" help:"Inclusive range start (YYYY-MM-DD)."`
	To       string `required:"" help:"Inclusive range end (YYYY-MM-DD)."`
	Out      string `default:"." type:"path" help:"Directory the CSV file is written into."`
	PageSize int    `default:"500" name:"page-size" help:"Accumulation page size used against the backend."`
}

func (cmd *exportCmd) Run(ctx context.Context) error {
	client, err := sheets.NewHTTPClient(sheets.Config{
		BaseURL: cmd.BaseURL,
		APIKey:  cmd.APIKey,
	})
	if err != nil {
		return err
	}
	service := leads.NewService(leads.Options{
		Source:   client,
		PageSize: cmd.PageSize,
	})
	export := commands.NewExportCommand(service, nil)
	if err := export.Execute(ctx, commands.ExportInput{
		From:      cmd.From,
		To:        cmd.To,
		OutputDir: cmd.Out,
	}); err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "✓ Wrote %d rows to %s\n", export.Result.Rows, filepath.Join(cmd.Out, export.Result.Filename))
	return nil
}

type presetCmd struct {
	Save presetSaveCmd `cmd:"" help:"Snapshot filter criteria under a preset name."`
	Load presetLoadCmd `cmd:"" help:"Restore a saved preset and print the resolved criteria."`
	List presetListCmd `cmd:"" help:"List saved preset names."`
}

type presetStateFlags struct {
	State string `default:"leads-state.json" type:"path" help:"Path to the JSON state file."`
}

func (f presetStateFlags) filters() *leads.FilterState {
	return leads.NewFilterState(leads.NewFileStateStore(f.State))
}

type presetSaveCmd struct {
	presetStateFlags
	Name    string `required:"" help:"Preset name."`
	Search  string `help:"Free-text search filter."`
	Quality string `help:"Lead quality filter (defaults to all)."`
	Model   string `help:"Car model filter (defaults to all)."`
	Source  string `help:"Lead source filter (defaults to all)."`
	Status  string `help:"Lead status filter (defaults to all)."`
	Tags    string `help:"Tags filter."`
	Period  string `help:"Period shortcut (today, 7d, 30d, custom)."`
	From    string `help:"Custom range start, used with --period=custom."`
	To      string `help:"Custom range end, used with --period=custom."`
}

func (cmd *presetSaveCmd) Run(_ context.Context) error {
	filters := cmd.filters()
	filters.SetFilters(patchFromFlags(cmd.Search, cmd.Quality, cmd.Model, cmd.Source, cmd.Status, cmd.Tags, cmd.Period, cmd.From, cmd.To))
	if err := filters.SavePreset(cmd.Name); err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "✓ Saved preset %q to %s\n", cmd.Name, cmd.State)
	return nil
}

type presetLoadCmd struct {
	presetStateFlags
	Name string `required:"" help:"Preset name."`
}

func (cmd *presetLoadCmd) Run(_ context.Context) error {
	filters := cmd.filters()
	known := filters.Presets()
	found := false
	for _, name := range known {
		if name == cmd.Name {
			found = true
			break
		}
	}
	if !found {
		return fmt.Errorf("leadctl: preset %q not found in %s", cmd.Name, cmd.State)
	}
	filters.LoadPreset(cmd.Name)
	raw, err := json.MarshalIndent(filters.Criteria(), "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(os.Stdout, string(raw))
	return nil
}

type presetListCmd struct {
	presetStateFlags
}

func (cmd *presetListCmd) Run(_ context.Context) error {
	names := cmd.filters().Presets()
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintln(os.Stdout, name)
	}
	return nil
}

func patchFromFlags(search, quality, model, source, status, tags, period, from, to string) leads.FilterPatch {
	var patch leads.FilterPatch
	set := func(target **string, value string) {
		if value != "" {
			v := value
			*target = &v
		}
	}
	set(&patch.Search, search)
	set(&patch.Quality, quality)
	set(&patch.Model, model)
	set(&patch.Source, source)
	set(&patch.Status, status)
	set(&patch.Tags, tags)
	set(&patch.Period, period)
	set(&patch.From, from)
	set(&patch.To, to)
	return patch
}

type manifestCmd struct {
	Validate manifestValidateCmd `cmd:"" help:"Validate a manifest file."`
}

type manifestValidateCmd struct {
	Path string `arg:"" type:"path" help:"Manifest YAML file."`
}

func (cmd *manifestValidateCmd) Run(_ context.Context) error {
	doc, err := leads.ReadManifest(cmd.Path)
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "✓ %s: version %s, %d widget(s)\n", cmd.Path, doc.Version, len(doc.Widgets))
	return nil
}

type scaffoldCmd struct {
	Code         string   `required:"" help:"Fully-qualified widget code (e.g. acme.widget.stats)."`
	Name         string   `required:"" help:"Display name for the widget."`
	Description  string   `required:"" help:"One-line description used in manifests."`
	Category     string   `default:"custom" help:"Widget category (analytics, table, etc.)."`
	ManifestPath string   `required:"" type:"path" help:"Path to the widget manifest YAML file to update."`
	SchemaPath   string   `type:"path" help:"Optional path to a JSON schema file for the widget configuration."`
	Tag          []string `help:"Optional tags to include in the manifest (use multiple --tag flags)."`
	Maintainer   []string `help:"Maintainers to record in the manifest."`
	ProviderOut  string   `help:"File path for the generated provider stub (defaults to components/leads/providers/<code>_provider.go)."`
	Overwrite    bool     `help:"Overwrite existing provider stub / manifest entry if present."`
	SkipProvider bool     `name:"skip-provider" help:"Skip provider stub generation."`
}

func (cmd *scaffoldCmd) Run(_ context.Context) error {
	if !strings.Contains(cmd.Code, ".") {
		return fmt.Errorf("leadctl: widget code %s must contain at least one '.' segment", cmd.Code)
	}
	manifestPath, err := filepath.Abs(cmd.ManifestPath)
	if err != nil {
		return fmt.Errorf("leadctl: resolve manifest path: %w", err)
	}
	doc, err := loadOrInitManifest(manifestPath)
	if err != nil {
		return err
	}
	if !cmd.Overwrite {
		for _, widget := range doc.Widgets {
			if widget.Definition.Code == cmd.Code {
				return fmt.Errorf("leadctl: manifest already defines widget %s (use --overwrite to replace)", cmd.Code)
			}
		}
	}

	schema, err := cmd.loadSchema()
	if err != nil {
		return err
	}

	providerType := deriveBaseName(cmd.Code) + "Provider"
	entry := leads.ManifestWidget{
		Definition: leads.WidgetDefinition{
			Code:        cmd.Code,
			Name:        cmd.Name,
			Description: cmd.Description,
			Category:    cmd.Category,
			Schema:      schema,
		},
		Maintainers: cmd.Maintainer,
		Tags:        cmd.Tag,
	}

	if cmd.Overwrite {
		replaced := false
		for idx := range doc.Widgets {
			if doc.Widgets[idx].Definition.Code == cmd.Code {
				doc.Widgets[idx] = entry
				replaced = true
				break
			}
		}
		if !replaced {
			doc.Widgets = append(doc.Widgets, entry)
		}
	} else {
		doc.Widgets = append(doc.Widgets, entry)
	}

	sort.Slice(doc.Widgets, func(i, j int) bool {
		return doc.Widgets[i].Definition.Code < doc.Widgets[j].Definition.Code
	})

	if err := writeManifest(manifestPath, doc); err != nil {
		return err
	}

	if cmd.SkipProvider {
		fmt.Fprintf(os.Stdout, "✓ Added %s to %s\n", cmd.Code, manifestPath)
		return nil
	}

	providerPath := cmd.ProviderOut
	if providerPath == "" {
		providerPath = filepath.Join("components", "leads", "providers", fmt.Sprintf("%s_provider.go", sanitizeFileName(cmd.Code)))
	}
	if err := writeProviderStub(providerPath, providerType, cmd.Code, cmd.Overwrite); err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "✓ Added %s to %s and generated %s\n", cmd.Code, manifestPath, providerPath)
	return nil
}

func (cmd *scaffoldCmd) loadSchema() (map[string]any, error) {
	if cmd.SchemaPath == "" {
		return map[string]any{
			"type":       "object",
			"properties": map[string]any{},
		}, nil
	}
	data, err := os.ReadFile(cmd.SchemaPath)
	if err != nil {
		return nil, fmt.Errorf("leadctl: read schema file: %w", err)
	}
	var schema map[string]any
	if err := json.Unmarshal(data, &schema); err != nil {
		return nil, fmt.Errorf("leadctl: parse schema JSON: %w", err)
	}
	return schema, nil
}

func loadOrInitManifest(path string) (*leads.WidgetManifestDocument, error) {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			doc := &leads.WidgetManifestDocument{
				Version: leads.ManifestVersion,
				Widgets: []leads.ManifestWidget{},
				Source:  path,
			}
			return doc, nil
		}
		return nil, fmt.Errorf("leadctl: stat manifest: %w", err)
	}
	return leads.ReadManifest(path)
}

func writeManifest(path string, doc *leads.WidgetManifestDocument) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("leadctl: mkdir %s: %w", filepath.Dir(path), err)
	}
	tmpDoc := *doc
	tmpDoc.Source = ""

	file, err := os.Create(path) //nolint:gosec
	if err != nil {
		return fmt.Errorf("leadctl: create manifest %s: %w", path, err)
	}
	defer file.Close()

	encoder := yaml.NewEncoder(file)
	encoder.SetIndent(2)
	defer encoder.Close()
	if err := encoder.Encode(tmpDoc); err != nil {
		return fmt.Errorf("leadctl: write manifest: %w", err)
	}
	return nil
}

func writeProviderStub(path, providerType, code string, overwrite bool) error {
	if _, err := os.Stat(path); err == nil && !overwrite {
		return fmt.Errorf("leadctl: provider stub %s already exists (use --overwrite or --provider-out)", path)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("leadctl: mkdir provider dir: %w", err)
	}
	content := fmt.Sprintf(`package leads

import (
	"context"
)

// %s fetches data for %s widgets.
type %s struct{}

// New%s wires the provider into the widget registry.
func New%s() Provider {
	return &%s{}
}

// Fetch retrieves the widget payload. Replace with your implementation.
func (p *%s) Fetch(ctx context.Context, meta WidgetContext) (WidgetData, error) {
	_ = meta
	return WidgetData{
		"message": "replace with real data",
	}, nil
}
`, providerType, code, providerType, providerType, providerType, providerType, providerType)

	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("leadctl: write provider stub: %w", err)
	}
	return nil
}

func deriveBaseName(code string) string {
	parts := strings.Split(code, ".")
	slug := strings.TrimSpace(parts[len(parts)-1])
	if slug == "" {
		slug = code
	}
	return strcase.ToCamel(slug)
}

func sanitizeFileName(code string) string {
	replacer := strings.NewReplacer(".", "_", "-", "_", "/", "_", " ", "_")
	return strings.ToLower(replacer.Replace(code))
}
