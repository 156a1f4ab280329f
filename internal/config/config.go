package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

const (
	DefaultGreeting = "I'm ready to help you update a document. What would you like to create?"
	DefaultPrompt   = `You are Drafter, a helpful writing assistant. You help the user update and modify documents.

- If the user wants to update or modify content, use the 'update' tool with the complete updated content.
- If the user wants to save and finish, use the 'save' tool.
- If the user asks you to transcribe audio, use the 'transcribe' tool and then offer to add the text to the document.
- Always show the current document state after modifications.

The current document content is:
{{.Document}}`
)

type Configuration struct {
	Model      *ModelConfig
	API        *APIConfig
	Session    *SessionConfig
	Document   *DocumentConfig
	Transcribe *TranscribeConfig
	Server     *ServerConfig
	Bot        *BotConfig
}

type ModelConfig struct {
	Model       string
	MaxTokens   int
	Temperature float32
	Thinking    bool
}

type APIConfig struct {
	Timeout      time.Duration
	OpenAIKey    string
	OpenAIURL    string
	AnthropicKey string
	GeminiKey    string
	OllamaURL    string
	OllamaKey    string
}

type SessionConfig struct {
	Policy   string
	Greeting string
	Prompt   string
	ChunkMax int
}

type DocumentConfig struct {
	OutputDir string
}

type TranscribeConfig struct {
	Enabled  bool
	Model    string
	Language string
}

type ServerConfig struct {
	Nick        string
	Server      string
	Port        int
	Channel     string
	SSL         bool
	TLSInsecure bool
	SASLNick    string
	SASLPass    string
}

type BotConfig struct {
	Admins    []string
	Verbose   bool
	Addressed bool
	Tools     []string
}

// YamlSource implements cli.ValueSource for a map loaded from YAML
type YamlSource struct {
	data map[string]any
	key  string
}

func (y *YamlSource) Lookup() (string, bool) {
	if v, ok := y.data[y.key]; ok {
		// Handle slices by joining with comma
		if slice, ok := v.([]any); ok {
			var strs []string
			for _, item := range slice {
				strs = append(strs, fmt.Sprintf("%v", item))
			}
			return strings.Join(strs, ","), true
		}
		return fmt.Sprintf("%v", v), true
	}
	return "", false
}

func (y *YamlSource) String() string   { return "yaml" }
func (y *YamlSource) GoString() string { return "yaml" }

// LoadYaml reads a YAML config file into a flat key map.
func LoadYaml(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var configData map[string]any
	if err := yaml.Unmarshal(data, &configData); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return configData, nil
}

func GetFlags() []cli.Flag {
	// Pre-parse config path
	configPath := getConfigPath(os.Args)
	var configData map[string]any
	if configPath != "" {
		data, err := LoadYaml(configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to read config file %s: %v\n", configPath, err)
		}
		configData = data
	}
	return buildFlags(configData)
}

func buildFlags(configData map[string]any) []cli.Flag {
	// Helper to create sources: EnvVar > YAML > Default
	src := func(key string, env ...string) cli.ValueSourceChain {
		chain := cli.ValueSourceChain{}
		for _, e := range env {
			chain.Chain = append(chain.Chain, cli.EnvVar(e))
		}
		if configData != nil {
			chain.Chain = append(chain.Chain, &YamlSource{data: configData, key: key})
		}
		return chain
	}

	return []cli.Flag{
		// Config file
		&cli.StringFlag{Name: "config", Aliases: []string{"b"}, Usage: "use the named configuration file", Sources: cli.EnvVars("DRAFTER_CONFIG")},
		&cli.BoolFlag{Name: "verbose", Aliases: []string{"V"}, Usage: "enable verbose logging of turns and configuration", Sources: src("verbose", "DRAFTER_VERBOSE")},

		// Model Configuration
		&cli.StringFlag{Name: "model", Value: "openai/gpt-4o-mini", Usage: "model used to drive the drafting session", Sources: src("model", "DRAFTER_MODEL")},
		&cli.IntFlag{Name: "maxtokens", Value: 4096, Usage: "maximum number of tokens to generate", Sources: src("maxtokens", "DRAFTER_MAXTOKENS")},
		&cli.FloatFlag{Name: "temperature", Value: 0.7, Usage: "temperature for the completion", Sources: src("temperature", "DRAFTER_TEMPERATURE")},
		&cli.BoolFlag{Name: "thinking", Usage: "enable thinking/reasoning for models that support it", Sources: src("thinking", "DRAFTER_THINKING")},

		// API Configuration
		&cli.DurationFlag{Name: "apitimeout", Aliases: []string{"t"}, Value: time.Minute * 5, Usage: "timeout for each model request", Sources: src("apitimeout", "DRAFTER_APITIMEOUT")},
		&cli.StringFlag{Name: "openaikey", Usage: "OpenAI API key", Sources: src("openaikey", "DRAFTER_OPENAIKEY", "OPENAI_API_KEY")},
		&cli.StringFlag{Name: "openaiurl", Usage: "OpenAI API URL (for custom endpoints)", Sources: src("openaiurl", "DRAFTER_OPENAIURL")},
		&cli.StringFlag{Name: "anthropickey", Usage: "Anthropic API key", Sources: src("anthropickey", "DRAFTER_ANTHROPICKEY")},
		&cli.StringFlag{Name: "geminikey", Usage: "Google Gemini API key", Sources: src("geminikey", "DRAFTER_GEMINIKEY")},
		&cli.StringFlag{Name: "ollamaurl", Value: "http://localhost:11434", Usage: "Ollama API URL", Sources: src("ollamaurl", "DRAFTER_OLLAMAURL")},
		&cli.StringFlag{Name: "ollamakey", Usage: "Ollama API key (Bearer token for authentication)", Sources: src("ollamakey", "DRAFTER_OLLAMAKEY")},

		// Session Behavior
		&cli.StringFlag{Name: "policy", Value: "savemarker", Usage: "termination policy: savemarker (end after a successful save) or usercontrol (end only on quit)", Sources: src("policy", "DRAFTER_POLICY")},
		&cli.StringFlag{Name: "greeting", Value: DefaultGreeting, Usage: "message shown when a session starts", Sources: src("greeting", "DRAFTER_GREETING")},
		&cli.StringFlag{Name: "prompt", Value: DefaultPrompt, Usage: "system prompt template; {{.Document}} is replaced by the current draft", Sources: src("prompt", "DRAFTER_PROMPT")},
		&cli.StringFlag{Name: "outdir", Usage: "directory for saved documents (default: working directory)", Sources: src("outdir", "DRAFTER_OUTDIR")},
		&cli.StringSliceFlag{Name: "tool", Usage: "extra tools to load (shell scripts or MCP server JSON files)", Sources: src("tool", "DRAFTER_TOOL")},

		// Transcription
		&cli.BoolFlag{Name: "transcribe", Value: true, Usage: "enable the speech-to-text tool (requires an OpenAI key)", Sources: src("transcribe", "DRAFTER_TRANSCRIBE")},
		&cli.StringFlag{Name: "transcribemodel", Value: "whisper-1", Usage: "speech-to-text model", Sources: src("transcribemodel", "DRAFTER_TRANSCRIBEMODEL")},
		&cli.StringFlag{Name: "language", Usage: "spoken language hint for transcription (ISO-639-1)", Sources: src("language", "DRAFTER_LANGUAGE")},

		// IRC Client Configuration
		&cli.StringFlag{Name: "nick", Aliases: []string{"n"}, Value: "drafter", Usage: "bot's nickname on the irc server", Sources: src("nick", "DRAFTER_NICK")},
		&cli.StringFlag{Name: "server", Aliases: []string{"s"}, Value: "localhost", Usage: "irc server address", Sources: src("server", "DRAFTER_SERVER")},
		&cli.BoolFlag{Name: "tls", Aliases: []string{"e"}, Usage: "enable TLS for the IRC connection", Sources: src("tls", "DRAFTER_TLS")},
		&cli.BoolFlag{Name: "tlsinsecure", Usage: "skip TLS certificate verification", Sources: src("tlsinsecure", "DRAFTER_TLSINSECURE")},
		&cli.IntFlag{Name: "port", Aliases: []string{"p"}, Value: 6667, Usage: "irc server port", Sources: src("port", "DRAFTER_PORT")},
		&cli.StringFlag{Name: "channel", Aliases: []string{"c"}, Usage: "irc channel to join", Sources: src("channel", "DRAFTER_CHANNEL")},
		&cli.StringFlag{Name: "saslnick", Usage: "nick used for SASL", Sources: src("saslnick", "DRAFTER_SASLNICK")},
		&cli.StringFlag{Name: "saslpass", Usage: "password for SASL plain", Sources: src("saslpass", "DRAFTER_SASLPASS")},
		&cli.StringSliceFlag{Name: "admins", Aliases: []string{"A"}, Usage: "comma-separated list of hostmasks allowed to manage tools", Sources: src("admins", "DRAFTER_ADMINS")},
		&cli.BoolFlag{Name: "addressed", Aliases: []string{"a"}, Value: true, Usage: "require bot be addressed by nick for response", Sources: src("addressed", "DRAFTER_ADDRESSED")},
		&cli.IntFlag{Name: "chunkmax", Aliases: []string{"m"}, Value: 350, Usage: "maximum number of characters to send as a single message", Sources: src("chunkmax", "DRAFTER_CHUNKMAX")},
	}
}

func getConfigPath(args []string) string {
	// Check env first
	if v := os.Getenv("DRAFTER_CONFIG"); v != "" {
		return v
	}
	for i, arg := range args {
		if arg == "--config" || arg == "-b" {
			if i+1 < len(args) {
				return args[i+1]
			}
		}
		if strings.HasPrefix(arg, "--config=") {
			return strings.TrimPrefix(arg, "--config=")
		}
	}
	return ""
}

// MaskKey hides all but the last three characters of a credential.
func MaskKey(key string) string {
	if len(key) > 3 {
		return strings.Repeat("*", len(key)-3) + key[len(key)-3:]
	}
	return key
}

func (c *Configuration) PrintConfig() {
	fmt.Printf("model: %s\n", c.Model.Model)
	fmt.Printf("maxtokens: %d\n", c.Model.MaxTokens)
	fmt.Printf("temperature: %f\n", c.Model.Temperature)
	fmt.Printf("thinking: %t\n", c.Model.Thinking)
	fmt.Printf("apitimeout: %s\n", c.API.Timeout)
	fmt.Printf("openaikey: %s\n", MaskKey(c.API.OpenAIKey))
	fmt.Printf("anthropickey: %s\n", MaskKey(c.API.AnthropicKey))
	fmt.Printf("geminikey: %s\n", MaskKey(c.API.GeminiKey))
	fmt.Printf("openaiurl: %s\n", c.API.OpenAIURL)
	fmt.Printf("ollamaurl: %s\n", c.API.OllamaURL)
	fmt.Printf("policy: %s\n", c.Session.Policy)
	fmt.Printf("greeting: %s\n", c.Session.Greeting)
	fmt.Printf("outdir: %s\n", c.Document.OutputDir)
	fmt.Printf("tool: %v\n", c.Bot.Tools)
	fmt.Printf("transcribe: %t\n", c.Transcribe.Enabled)
	fmt.Printf("transcribemodel: %s\n", c.Transcribe.Model)
	fmt.Printf("verbose: %t\n", c.Bot.Verbose)
}

func NewConfiguration(c *cli.Command) *Configuration {
	if c.IsSet("config") {
		zap.S().Infow("Using config file", "path", c.String("config"))
	}

	return &Configuration{
		Model: &ModelConfig{
			Model:       c.String("model"),
			MaxTokens:   c.Int("maxtokens"),
			Temperature: float32(c.Float("temperature")),
			Thinking:    c.Bool("thinking"),
		},
		API: &APIConfig{
			Timeout:      c.Duration("apitimeout"),
			OpenAIKey:    c.String("openaikey"),
			OpenAIURL:    c.String("openaiurl"),
			AnthropicKey: c.String("anthropickey"),
			GeminiKey:    c.String("geminikey"),
			OllamaURL:    c.String("ollamaurl"),
			OllamaKey:    c.String("ollamakey"),
		},
		Session: &SessionConfig{
			Policy:   c.String("policy"),
			Greeting: c.String("greeting"),
			Prompt:   c.String("prompt"),
			ChunkMax: c.Int("chunkmax"),
		},
		Document: &DocumentConfig{
			OutputDir: c.String("outdir"),
		},
		Transcribe: &TranscribeConfig{
			Enabled:  c.Bool("transcribe"),
			Model:    c.String("transcribemodel"),
			Language: c.String("language"),
		},
		Server: &ServerConfig{
			Nick:        c.String("nick"),
			Server:      c.String("server"),
			Port:        c.Int("port"),
			Channel:     c.String("channel"),
			SSL:         c.Bool("tls"),
			TLSInsecure: c.Bool("tlsinsecure"),
			SASLNick:    c.String("saslnick"),
			SASLPass:    c.String("saslpass"),
		},
		Bot: &BotConfig{
			Admins:    c.StringSlice("admins"),
			Verbose:   c.Bool("verbose"),
			Addressed: c.Bool("addressed"),
			Tools:     c.StringSlice("tool"),
		},
	}
}
