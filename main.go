// seatrans: translate long English documents into Southeast Asian languages
// with SEA-LION.
package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"sync"
	"time"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/seatrans/seatrans/chunker"
	"github.com/seatrans/seatrans/config"
	"github.com/seatrans/seatrans/dispatch"
	"github.com/seatrans/seatrans/fetch"
	"github.com/seatrans/seatrans/i18n"
	"github.com/seatrans/seatrans/langmeta"
	"github.com/seatrans/seatrans/output"
	"github.com/seatrans/seatrans/pipeline"
	"github.com/seatrans/seatrans/prompt"
	"github.com/seatrans/seatrans/settings"
	"github.com/seatrans/seatrans/translate"
)

// Version information (set via -ldflags during build)
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// ANSI colors
const (
	colorReset  = "\033[0m"
	colorRed    = "\033[0;31m"
	colorGreen  = "\033[0;32m"
	colorYellow = "\033[1;33m"
	colorBlue   = "\033[0;34m"
)

func logInfo(format string, args ...any) {
	fmt.Fprintf(os.Stderr, colorBlue+"[INFO]"+colorReset+" "+format+"\n", args...)
}

func logSuccess(format string, args ...any) {
	fmt.Fprintf(os.Stderr, colorGreen+"[OK]"+colorReset+" "+format+"\n", args...)
}

func logWarning(format string, args ...any) {
	fmt.Fprintf(os.Stderr, colorYellow+"[WARN]"+colorReset+" "+format+"\n", args...)
}

func logError(format string, args ...any) {
	fmt.Fprintf(os.Stderr, colorRed+"[ERROR]"+colorReset+" "+format+"\n", args...)
}

// ---------------------------------------------------------------------------
// Global flags
// ---------------------------------------------------------------------------

var (
	verbose    bool
	configPath string
	envFile    string
	uiLang     string
)

// log is the structured logger handed to the library packages. It stays
// quiet unless --verbose is given.
var log = newLogger()

func newLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(os.Stderr)
	l.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	l.SetLevel(logrus.WarnLevel)
	return l
}

// ---------------------------------------------------------------------------
// Root command
// ---------------------------------------------------------------------------

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "seatrans",
		Short: "Translate long documents into Southeast Asian languages with SEA-LION",
		Long: heredoc.Doc(`
			seatrans: chunked document translation with SEA-LION.

			The source text is split into sentence-aligned chunks, the chunks are
			translated concurrently by a fixed pool of workers and the results are
			reassembled in the original order.

			Commands:
			  translate   Translate a document (URL or file)
			  chunk       Show how a document would be chunked, without translating
			  languages   List the supported target languages
			  auth        Manage provider credentials

			Providers:
			  sealion        AI Singapore SEA-LION API (default), API key
			  groq           Groq, API key
			  ollama         Ollama local server
			  custom-openai  Custom OpenAI-compatible endpoint
			  lambda         seatrans AWS Lambda function`),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			i18n.Init(uiLang)
			if verbose {
				log.SetLevel(logrus.DebugLevel)
			}
			return settings.LoadEnv(envFileList()...)
		},
	}

	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable detailed logging")
	root.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default: ./"+config.FileName+" if present)")
	root.PersistentFlags().StringVar(&envFile, "env-file", "", "Load environment variables from this file (default: .env)")
	root.PersistentFlags().StringVar(&uiLang, "ui-lang", "", "Interface language (default: from LANGUAGE/LC_ALL/LANG)")
	_ = root.RegisterFlagCompletionFunc("ui-lang", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return append([]string{"en"}, i18n.Available()...), cobra.ShellCompDirectiveNoFileComp
	})

	root.AddCommand(
		newTranslateCmd(),
		newChunkCmd(),
		newLanguagesCmd(),
		newAuthCmd(),
		newVersionCmd(),
	)

	return root
}

func envFileList() []string {
	if envFile == "" {
		return nil
	}
	return []string{envFile}
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		logError("%v", err)
		os.Exit(1)
	}
}

// ---------------------------------------------------------------------------
// version (display version information)
// ---------------------------------------------------------------------------

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long:  `Display version, commit hash, and build date.`,
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "seatrans version %s\n", version)
			fmt.Fprintf(out, "  commit:    %s\n", commit)
			fmt.Fprintf(out, "  built:     %s\n", date)
		},
	}
}

// ---------------------------------------------------------------------------
// translate
// ---------------------------------------------------------------------------

// translateArgs holds every setting of a translate run after flags and
// the config file are merged.
type translateArgs struct {
	input, output           string
	lang                    string
	provider, model, apiKey string
	baseURL, function       string
	proxy                   string
	timeout                 time.Duration
	chunkChars, poolSize    int
	bilingual               bool
	prompt                  string
}

func defaultTranslateArgs() translateArgs {
	return translateArgs{
		input:      fetch.DefaultSource,
		output:     output.DefaultPath,
		provider:   translate.ProviderSeaLion,
		chunkChars: chunker.DefaultMaxChars,
		poolSize:   dispatch.DefaultPoolSize,
		prompt:     prompt.TemplateDefault,
	}
}

func newTranslateCmd() *cobra.Command {
	a := defaultTranslateArgs()

	cmd := &cobra.Command{
		Use:   "translate",
		Short: "Translate a document",
		Long: heredoc.Doc(`
			Translate a plain-text document into one of the supported languages.

			The input may be an http(s) URL or a local file. Without --input the
			Project Gutenberg default book is downloaded. The output file is only
			written once every chunk has been translated.

			Settings can also come from a .seatrans.yaml file in the current
			directory (or --config). Flags given on the command line win.

			Examples:
			  # Translate the default book into Thai
			  seatrans translate --lang thai

			  # Translate a local file with the Llama model, 4 requests at a time
			  seatrans translate -i book.txt -l vietnamese \
			    --model aisingapore/Llama-SEA-LION-v3-70B-IT --pool-size 4

			  # Side-by-side English and Indonesian
			  seatrans translate -i book.txt -l id --bilingual -o book.id.txt`),
		RunE: func(cmd *cobra.Command, args []string) error {
			file, err := loadConfigFile()
			if err != nil {
				return err
			}
			mergeConfig(&a, file, cmd.Flags().Changed)
			return runTranslate(cmd.Context(), a)
		},
	}

	cmd.Flags().StringVarP(&a.input, "input", "i", a.input, "Source URL or file path")
	cmd.Flags().StringVarP(&a.output, "output", "o", a.output, "Output file path")
	cmd.Flags().StringVarP(&a.lang, "lang", "l", "", "Target language (required): "+strings.Join(langmeta.SupportedNames(), ", "))

	cmd.Flags().StringVar(&a.provider, "provider", a.provider, "Provider: "+strings.Join(translate.ProviderIDs(), ", "))
	cmd.Flags().StringVar(&a.model, "model", "", "Model name (default: provider default)")
	cmd.Flags().StringVar(&a.apiKey, "api-key", "", "API key (or SEA_LION_API_KEY / SEATRANS_API_KEY env var)")
	cmd.Flags().StringVar(&a.baseURL, "base-url", "", "Custom API base URL")
	cmd.Flags().StringVar(&a.function, "function", "", "Lambda function name or ARN (lambda provider)")

	cmd.Flags().IntVar(&a.chunkChars, "chunk-chars", a.chunkChars, "Maximum characters per chunk")
	cmd.Flags().IntVar(&a.poolSize, "pool-size", a.poolSize, "Maximum concurrent requests")
	cmd.Flags().BoolVar(&a.bilingual, "bilingual", false, "Interleave the English source with each translated chunk")
	cmd.Flags().StringVar(&a.prompt, "prompt", a.prompt, "Prompt template name from prompts.json")

	cmd.Flags().DurationVar(&a.timeout, "timeout", 0, "Request timeout (0 = provider default)")
	cmd.Flags().StringVar(&a.proxy, "proxy", "", "HTTP/HTTPS proxy URL")

	registerCompletions(cmd)

	return cmd
}

func registerCompletions(cmd *cobra.Command) {
	_ = cmd.RegisterFlagCompletionFunc("provider", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		defaults := translate.DefaultProviders()
		out := make([]string, 0, len(defaults))
		for _, id := range translate.ProviderIDs() {
			out = append(out, id+"\t"+defaults[id].Name)
		}
		return out, cobra.ShellCompDirectiveNoFileComp
	})

	_ = cmd.RegisterFlagCompletionFunc("model", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		p, _ := cmd.Flags().GetString("provider")
		prov, err := translate.ResolveProvider(p)
		if err != nil {
			return nil, cobra.ShellCompDirectiveNoFileComp
		}
		if len(prov.Models) > 0 {
			return prov.Models, cobra.ShellCompDirectiveNoFileComp
		}
		if prov.Model != "" {
			return []string{prov.Model}, cobra.ShellCompDirectiveNoFileComp
		}
		return nil, cobra.ShellCompDirectiveNoFileComp
	})

	_ = cmd.RegisterFlagCompletionFunc("lang", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		var out []string
		for _, l := range langmeta.Supported() {
			out = append(out, l.Name+"\t"+l.Meta.Name)
		}
		return out, cobra.ShellCompDirectiveNoFileComp
	})
}

func loadConfigFile() (*config.File, error) {
	if configPath != "" {
		return config.Load(configPath)
	}
	return config.LoadFromDir(".")
}

// mergeConfig fills a with values from the config file for every flag the
// user did not set explicitly.
func mergeConfig(a *translateArgs, f *config.File, changed func(string) bool) {
	if f == nil {
		return
	}
	setStr := func(flag string, dst *string, v string) {
		if v != "" && !changed(flag) {
			*dst = v
		}
	}
	setInt := func(flag string, dst *int, v int) {
		if v != 0 && !changed(flag) {
			*dst = v
		}
	}

	setStr("input", &a.input, f.Input)
	setStr("output", &a.output, f.Output)
	setStr("lang", &a.lang, f.Language)
	setStr("provider", &a.provider, f.Provider)
	setStr("model", &a.model, f.Model)
	setStr("base-url", &a.baseURL, f.BaseURL)
	setStr("function", &a.function, f.Function)
	setStr("proxy", &a.proxy, f.Proxy)
	setStr("prompt", &a.prompt, f.Prompt)
	setInt("chunk-chars", &a.chunkChars, f.ChunkChars)
	setInt("pool-size", &a.poolSize, f.PoolSize)

	if v, ok := f.IsBilingual(); ok && !changed("bilingual") {
		a.bilingual = v
	}
	if d := f.TimeoutDuration(); d > 0 && !changed("timeout") {
		a.timeout = d
	}
}

// resolveProvider builds the provider for a run: defaults for the ID,
// then stored settings, then explicit overrides.
func resolveProvider(a translateArgs) (translate.Provider, error) {
	prov, err := translate.ResolveProvider(a.provider)
	if err != nil {
		return translate.Provider{}, err
	}

	if a.baseURL != "" {
		prov.BaseURL = a.baseURL
	} else if stored := settings.GetBaseURL(prov.ID); stored != "" {
		prov.BaseURL = stored
	}
	if a.function != "" {
		prov.Function = a.function
	} else if stored := settings.GetFunction(prov.ID); stored != "" {
		prov.Function = stored
	}
	prov.APIKey = settings.ResolveAPIKey(prov.ID, a.apiKey)
	if a.proxy != "" {
		prov.Proxy = a.proxy
	}
	if a.timeout > 0 {
		prov.Timeout = a.timeout
	}

	model, err := translate.ValidateModel(prov, a.model)
	if err != nil {
		return translate.Provider{}, err
	}
	prov.Model = model

	if err := prov.Validate(); err != nil {
		return translate.Provider{}, providerHint(prov, err)
	}
	return prov, nil
}

// providerHint adds setup instructions to a provider validation error.
func providerHint(prov translate.Provider, err error) error {
	switch {
	case prov.ID == translate.ProviderLambda:
		return fmt.Errorf("%w\n\n"+
			"Option 1: Store the function:\n"+
			"  seatrans auth login --provider lambda --function NAME\n\n"+
			"Option 2: Pass it directly:\n"+
			"  --function NAME", err)
	case prov.BaseURL == "":
		return fmt.Errorf("%w\n\n"+
			"Option 1: Configure via auth:\n"+
			"  seatrans auth login --provider %s --base-url https://api.example.com/v1\n\n"+
			"Option 2: Pass directly:\n"+
			"  --base-url https://api.example.com/v1", err, prov.ID)
	default:
		envVar := settings.EnvVarForProvider(prov.ID)
		return fmt.Errorf("%w\n\n"+
			"Option 1: Store your API key:\n"+
			"  seatrans auth login --provider %s\n\n"+
			"Option 2: Pass key directly:\n"+
			"  --api-key YOUR_KEY or export %s=YOUR_KEY (or %s)", err, prov.ID, envVar, settings.GenericKeyEnv)
	}
}

func loadTemplate(name string) (string, error) {
	path, err := settings.PromptsFilePath()
	if err != nil {
		return "", err
	}
	templates, err := prompt.LoadTemplates(path)
	if err != nil {
		return "", err
	}
	return templates.Get(name)
}

func runTranslate(ctx context.Context, a translateArgs) error {
	if strings.TrimSpace(a.lang) == "" {
		return fmt.Errorf("%s (%s)", i18n.T("--lang is required"), strings.Join(langmeta.SupportedNames(), ", "))
	}
	lang, err := langmeta.Lookup(a.lang)
	if err != nil {
		return err
	}

	prov, err := resolveProvider(a)
	if err != nil {
		return err
	}
	template, err := loadTemplate(a.prompt)
	if err != nil {
		return err
	}

	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	inv, err := translate.NewInvoker(ctx, prov)
	if err != nil {
		return err
	}

	logInfo(i18n.T("Downloading %s..."), a.input)
	text, err := fetch.Download(ctx, a.input)
	if err != nil {
		return fmt.Errorf("%s: %w", i18n.T("download failed"), err)
	}

	cfg := pipeline.DefaultConfig(lang.Name, prov.Model)
	cfg.MaxCharsPerChunk = a.chunkChars
	cfg.PoolSize = a.poolSize
	cfg.Bilingual = a.bilingual
	cfg.Template = template
	cfg.Logger = log
	cfg.OnChunks = func(chunks []chunker.Chunk) {
		logInfo(i18n.N("Split into %d chunk", "Split into %d chunks", len(chunks)), len(chunks))
		if s := chunker.Stats(chunks, a.chunkChars); s.Oversize > 0 {
			logWarning(i18n.T("%d sentences are longer than %d characters and are sent whole"), s.Oversize, a.chunkChars)
		}
		logInfo(i18n.T("Translating to %s %s with %s (%s), %d workers"),
			lang.Flag, lang.Meta.Name, prov.Name, prov.Model, dispatch.Workers(a.poolSize, len(chunks)))
	}
	bar := newProgress(os.Stderr)
	cfg.OnProgress = bar.update

	out, err := pipeline.Run(ctx, text, cfg, inv)
	bar.finish()
	if err != nil {
		if errors.Is(err, context.Canceled) && ctx.Err() != nil {
			return errors.New(i18n.T("interrupted, nothing was written"))
		}
		return err
	}

	header := output.Header{Source: a.input, Language: lang.Name, Model: prov.Model}
	if err := output.Write(a.output, header, out.Text); err != nil {
		return err
	}

	logSuccess(i18n.T("Translated %d chunks (%d characters) in %s"),
		out.Chunks, out.SourceChars, out.Elapsed.Round(time.Millisecond))
	logSuccess(i18n.T("Saved to %s"), a.output)
	logSuccess(i18n.T("Done."))
	return nil
}

// ---------------------------------------------------------------------------
// Progress display
// ---------------------------------------------------------------------------

const progressWidth = 30

// progressBar renders a colored bar followed by the percentage.
func progressBar(percent, width int) string {
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}
	filled := percent * width / 100

	color := colorRed
	switch {
	case percent >= 100:
		color = colorGreen
	case percent >= 40:
		color = colorYellow
	}

	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
	return fmt.Sprintf("%s%s%s %3d%%", color, bar, colorReset, percent)
}

// progress redraws a single status line on w. update may be called from
// several workers at once.
type progress struct {
	mu   sync.Mutex
	w    io.Writer
	done int
	used bool
}

func newProgress(w io.Writer) *progress {
	return &progress{w: w}
}

func (p *progress) update(done, total int) {
	if total <= 0 {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	// Callbacks can arrive out of order; never move the bar backwards.
	if done < p.done {
		return
	}
	p.done = done
	p.used = true
	fmt.Fprintf(p.w, "\r  %s  %d/%d", progressBar(done*100/total, progressWidth), done, total)
}

func (p *progress) finish() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.used {
		fmt.Fprintln(p.w)
	}
}

// ---------------------------------------------------------------------------
// chunk (dry run)
// ---------------------------------------------------------------------------

func newChunkCmd() *cobra.Command {
	var (
		input      = fetch.DefaultSource
		chunkChars = chunker.DefaultMaxChars
		list       bool
	)

	cmd := &cobra.Command{
		Use:   "chunk",
		Short: "Show how a document would be chunked",
		Long: heredoc.Doc(`
			Split a document into chunks exactly as translate would, and print
			statistics. No provider is contacted.

			Examples:
			  seatrans chunk -i book.txt
			  seatrans chunk -i book.txt --chunk-chars 2000 --list`),
		RunE: func(cmd *cobra.Command, args []string) error {
			file, err := loadConfigFile()
			if err != nil {
				return err
			}
			if file != nil {
				if file.Input != "" && !cmd.Flags().Changed("input") {
					input = file.Input
				}
				if file.ChunkChars != 0 && !cmd.Flags().Changed("chunk-chars") {
					chunkChars = file.ChunkChars
				}
			}

			text, err := fetch.Download(cmd.Context(), input)
			if err != nil {
				return fmt.Errorf("%s: %w", i18n.T("download failed"), err)
			}
			return printChunks(cmd.OutOrStdout(), text, chunkChars, list)
		},
	}

	cmd.Flags().StringVarP(&input, "input", "i", input, "Source URL or file path")
	cmd.Flags().IntVar(&chunkChars, "chunk-chars", chunkChars, "Maximum characters per chunk")
	cmd.Flags().BoolVar(&list, "list", false, "Print one line per chunk")

	return cmd
}

func printChunks(w io.Writer, text string, maxChars int, list bool) error {
	chunks, err := chunker.Split(text, maxChars)
	if err != nil {
		return err
	}
	s := chunker.Stats(chunks, maxChars)

	fmt.Fprintf(w, "%-12s %d\n", i18n.T("Chunks:"), s.Chunks)
	fmt.Fprintf(w, "%-12s %d\n", i18n.T("Characters:"), s.TotalChars)
	fmt.Fprintf(w, "%-12s %d / %d\n", i18n.T("Largest:"), s.Largest, maxChars)
	if s.Oversize > 0 {
		fmt.Fprintf(w, "%-12s %d\n", i18n.T("Oversize:"), s.Oversize)
	}

	if list {
		fmt.Fprintln(w)
		for _, c := range chunks {
			fmt.Fprintf(w, "%5d  %5d  %s\n", c.Index, c.CharLength, preview(c.Text, 60))
		}
	}
	return nil
}

// preview returns the first n runes of s on one line.
func preview(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

// ---------------------------------------------------------------------------
// languages
// ---------------------------------------------------------------------------

func newLanguagesCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "languages",
		Aliases: []string{"langs"},
		Short:   "List supported target languages",
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			for _, l := range langmeta.Supported() {
				fmt.Fprintf(out, "%s  %-4s %-12s %s\n", l.Flag, l.Code, l.Name, l.Meta.Name)
			}
		},
	}
}

// ---------------------------------------------------------------------------
// auth
// ---------------------------------------------------------------------------

func newAuthCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Manage provider credentials",
		Long: heredoc.Doc(`
			Manage credentials for the translation providers.

			API key providers (paste your key):
			  sealion        AI Singapore SEA-LION API
			  groq           Groq Cloud
			  custom-openai  Custom OpenAI-compatible endpoint

			Function target:
			  lambda         seatrans AWS Lambda function (uses AWS credentials)

			No auth required:
			  ollama         Local Ollama server

			Examples:
			  seatrans auth login                          Interactive provider selection
			  seatrans auth login --provider sealion       Store a SEA-LION API key
			  seatrans auth login --provider lambda --function seatrans
			  seatrans auth logout --provider groq         Remove the Groq key
			  seatrans auth logout                         Remove all credentials
			  seatrans auth list                           Show stored credentials`),
	}

	cmd.AddCommand(
		newAuthLoginCmd(),
		newAuthLogoutCmd(),
		newAuthListCmd(),
	)

	return cmd
}

// authProviders is the ordered list of providers for the interactive menu.
var authProviders = []struct {
	id      string
	desc    string
	auth    string // "api-key", "function", "none"
	helpURL string
}{
	{translate.ProviderSeaLion, "AI Singapore SEA-LION API", "api-key", "https://playground.sea-lion.ai"},
	{translate.ProviderGroq, "fast inference, free tier available", "api-key", "https://console.groq.com/keys"},
	{translate.ProviderCustomOpenAI, "any OpenAI-compatible endpoint", "api-key", ""},
	{translate.ProviderLambda, "seatrans AWS Lambda function", "function", ""},
	{translate.ProviderOllama, "local server, no auth needed", "none", ""},
}

func newAuthLoginCmd() *cobra.Command {
	var provider, baseURL, function string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Store credentials for a provider",
		Long: heredoc.Doc(`
			Store an API key (or Lambda function) for a provider.

			If --provider is not specified, you will be prompted to choose.`),
		RunE: func(cmd *cobra.Command, args []string) error {
			in := bufio.NewScanner(cmd.InOrStdin())
			if provider == "" {
				p, err := chooseProvider(in)
				if err != nil {
					return err
				}
				provider = p
			}
			return authLogin(in, provider, baseURL, function)
		},
	}

	cmd.Flags().StringVar(&provider, "provider", "", "Provider to configure")
	cmd.Flags().StringVar(&baseURL, "base-url", "", "Endpoint URL (custom-openai)")
	cmd.Flags().StringVar(&function, "function", "", "Function name or ARN (lambda)")
	_ = cmd.RegisterFlagCompletionFunc("provider", authProviderCompletion)

	return cmd
}

func chooseProvider(in *bufio.Scanner) (string, error) {
	var choices []string
	fmt.Fprintf(os.Stderr, "\n%s%s%s\n\n", colorBlue, i18n.T("Select provider to configure:"), colorReset)
	for _, p := range authProviders {
		if p.auth == "none" {
			continue
		}
		choices = append(choices, p.id)
		fmt.Fprintf(os.Stderr, "  %d) %-14s %s\n", len(choices), p.id, p.desc)
	}
	fmt.Fprintf(os.Stderr, "\n  %s", i18n.T("Choice: "))

	if !in.Scan() {
		return "", errors.New(i18n.T("no input received"))
	}
	answer := strings.TrimSpace(in.Text())
	for i, id := range choices {
		if answer == fmt.Sprint(i+1) || answer == id {
			return id, nil
		}
	}
	return "", errors.New(i18n.Tf("invalid choice %q", answer))
}

func authLogin(in *bufio.Scanner, providerID, baseURL, function string) error {
	prov, err := translate.ResolveProvider(providerID)
	if err != nil {
		return err
	}

	switch prov.ID {
	case translate.ProviderOllama:
		logInfo(i18n.T("%s needs no credentials"), prov.Name)
		return nil

	case translate.ProviderLambda:
		if function == "" {
			fmt.Fprintf(os.Stderr, "  %s", i18n.T("Function name or ARN: "))
			if !in.Scan() {
				return errors.New(i18n.T("no input received"))
			}
			function = strings.TrimSpace(in.Text())
		}
		if function == "" {
			return errors.New(i18n.T("no function provided"))
		}
		if err := settings.SetFunction(prov.ID, function); err != nil {
			return fmt.Errorf("saving function: %w", err)
		}
		logSuccess(i18n.T("%s function saved"), prov.Name)
		return nil
	}

	if prov.ID == translate.ProviderCustomOpenAI {
		if baseURL == "" {
			baseURL = settings.GetBaseURL(prov.ID)
		}
		if baseURL == "" {
			fmt.Fprintf(os.Stderr, "  %s", i18n.T("Endpoint URL: "))
			if !in.Scan() {
				return errors.New(i18n.T("no input received"))
			}
			baseURL = strings.TrimSpace(in.Text())
		}
		if baseURL == "" {
			return errors.New(i18n.T("no endpoint URL provided"))
		}
	}

	for _, p := range authProviders {
		if p.id == prov.ID && p.helpURL != "" {
			fmt.Fprintf(os.Stderr, "\n  %s %s%s%s\n\n", i18n.T("Get your API key from:"), colorGreen, p.helpURL, colorReset)
		}
	}

	existing := settings.GetAPIKey(prov.ID)
	if existing != "" {
		fmt.Fprintf(os.Stderr, "  %s %s%s%s\n", i18n.T("Current key:"), colorYellow, settings.MaskKey(existing), colorReset)
		fmt.Fprintf(os.Stderr, "  %s", i18n.T("Enter new key to replace, or press Enter to keep: "))
	} else {
		fmt.Fprintf(os.Stderr, "  %s", i18n.T("Enter API key: "))
	}
	if !in.Scan() {
		return errors.New(i18n.T("no input received"))
	}
	key := strings.TrimSpace(in.Text())
	if key == "" {
		key = existing
	}
	if key == "" && prov.NeedsKey {
		return errors.New(i18n.T("no API key provided"))
	}

	if prov.ID == translate.ProviderCustomOpenAI {
		err = settings.SetAPIKeyWithBaseURL(prov.ID, key, baseURL)
	} else {
		err = settings.SetAPIKey(prov.ID, key)
	}
	if err != nil {
		return fmt.Errorf("saving API key: %w", err)
	}
	logSuccess(i18n.T("%s API key saved"), prov.Name)
	return nil
}

func newAuthLogoutCmd() *cobra.Command {
	var provider string

	cmd := &cobra.Command{
		Use:   "logout",
		Short: "Remove stored credentials",
		Long: heredoc.Doc(`
			Remove stored credentials for one or all providers.

			If --provider is not specified, credentials for ALL providers are removed.`),
		RunE: func(cmd *cobra.Command, args []string) error {
			if provider == "" {
				if err := settings.RemoveAll(); err != nil {
					return err
				}
				logSuccess(i18n.T("All stored credentials removed"))
				return nil
			}
			prov, err := translate.ResolveProvider(provider)
			if err != nil {
				return err
			}
			if err := settings.Remove(prov.ID); err != nil {
				return fmt.Errorf("removing %s credentials: %w", prov.ID, err)
			}
			logSuccess(i18n.T("%s credentials removed"), prov.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&provider, "provider", "", "Provider to logout (default: all)")
	_ = cmd.RegisterFlagCompletionFunc("provider", authProviderCompletion)

	return cmd
}

func authProviderCompletion(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	completions := make([]string, 0, len(authProviders))
	for _, p := range authProviders {
		if p.auth == "none" {
			continue
		}
		completions = append(completions, fmt.Sprintf("%s\t%s", p.id, p.desc))
	}
	return completions, cobra.ShellCompDirectiveNoFileComp
}

func newAuthListCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "Show stored credentials and status",
		Run: func(cmd *cobra.Command, args []string) {
			printCredentials(cmd.ErrOrStderr())
		},
	}
}

func printCredentials(w io.Writer) {
	fmt.Fprintf(w, "\n%s%s%s\n", colorBlue, i18n.T("Stored Credentials"), colorReset)
	fmt.Fprintln(w, strings.Repeat("─", 60))
	if path := settings.FilePath(); path != "" {
		fmt.Fprintf(w, "  %s %s\n\n", i18n.T("File:"), path)
	}

	for _, p := range authProviders {
		if p.auth == "none" {
			continue
		}
		entry := settings.Get(p.id)
		switch {
		case entry != nil && entry.Key != "":
			status := fmt.Sprintf("%s%s%s (key: %s)", colorGreen, i18n.T("configured"), colorReset, settings.MaskKey(entry.Key))
			if entry.BaseURL != "" {
				status += fmt.Sprintf("\n  %14s endpoint: %s", "", entry.BaseURL)
			}
			fmt.Fprintf(w, "  %-14s %s\n", p.id, status)
		case entry != nil && entry.Function != "":
			fmt.Fprintf(w, "  %-14s %s%s%s (function: %s)\n", p.id, colorGreen, i18n.T("configured"), colorReset, entry.Function)
		case entry != nil && entry.BaseURL != "":
			fmt.Fprintf(w, "  %-14s %s%s%s (no key)\n  %14s endpoint: %s\n", p.id, colorGreen, i18n.T("configured"), colorReset, "", entry.BaseURL)
		default:
			fmt.Fprintf(w, "  %-14s %s%s%s\n", p.id, colorRed, i18n.T("not configured"), colorReset)
		}
	}

	fmt.Fprintf(w, "\n  %s%s%s\n", colorYellow, i18n.T("Environment Variables"), colorReset)
	for _, env := range []string{
		settings.EnvVarForProvider(translate.ProviderSeaLion),
		settings.EnvVarForProvider(translate.ProviderGroq),
		settings.GenericKeyEnv,
	} {
		if v := os.Getenv(env); v != "" {
			fmt.Fprintf(w, "  %-18s %s%s%s (%s)\n", env+":", colorGreen, settings.MaskKey(v), colorReset, i18n.T("overrides stored keys"))
		} else {
			fmt.Fprintf(w, "  %-18s %s%s%s\n", env+":", colorRed, i18n.T("not set"), colorReset)
		}
	}
	fmt.Fprintln(w)
}
