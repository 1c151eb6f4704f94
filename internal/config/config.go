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

type Configuration struct {
	Server  *ServerConfig
	Profile *ProfileConfig
	Model   *ModelConfig
	API     *APIConfig
	Push    *PushConfig
}

type ServerConfig struct {
	Addr    string
	Verbose bool
}

type ProfileConfig struct {
	Name        string
	Dir         string
	LinkedInURL string
	GitHubURL   string
}

type ModelConfig struct {
	Model         string
	MaxTokens     int
	Temperature   float32
	MaxToolRounds int
}

type APIConfig struct {
	Key     string
	URL     string
	Timeout time.Duration
}

type PushConfig struct {
	User  string
	Token string
	URL   string
}

// YamlSource implements cli.ValueSource for a map loaded from YAML
type YamlSource struct {
	data map[string]any
	key  string
}

func (y *YamlSource) Lookup() (string, bool) {
	if v, ok := y.data[y.key]; ok {
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

func GetFlags() []cli.Flag {
	// Pre-parse config path
	configPath := getConfigPath()
	var configData map[string]any
	if configPath != "" {
		data, err := os.ReadFile(configPath)
		if err == nil {
			_ = yaml.Unmarshal(data, &configData)
		} else {
			fmt.Fprintf(os.Stderr, "Warning: failed to read config file %s: %v\n", configPath, err)
		}
	}

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
		&cli.StringFlag{Name: "config", Aliases: []string{"b"}, Usage: "use the named configuration file", Sources: cli.EnvVars("MEBOT_CONFIG")},

		// HTTP server
		&cli.StringFlag{Name: "addr", Aliases: []string{"l"}, Value: ":7860", Usage: "address to listen on", Sources: src("addr", "MEBOT_ADDR")},
		&cli.BoolFlag{Name: "verbose", Aliases: []string{"V"}, Usage: "enable verbose logging", Sources: src("verbose", "MEBOT_VERBOSE")},

		// Profile
		&cli.StringFlag{Name: "name", Value: "Gennaro Rascato", Usage: "name of the person the bot acts as", Sources: src("name", "MEBOT_NAME")},
		&cli.StringFlag{Name: "profiledir", Aliases: []string{"d"}, Value: "me", Usage: "directory holding Profile.pdf, summary.txt and CV.pdf", Sources: src("profiledir", "MEBOT_PROFILEDIR")},
		&cli.StringFlag{Name: "linkedinurl", Value: "https://www.linkedin.com/in/gennaro-rascato", Usage: "LinkedIn profile URL shown on the page", Sources: src("linkedinurl", "MEBOT_LINKEDINURL")},
		&cli.StringFlag{Name: "githuburl", Value: "https://github.com/trollfaceiv", Usage: "GitHub profile URL shown on the page", Sources: src("githuburl", "MEBOT_GITHUBURL")},

		// API Configuration
		&cli.StringFlag{Name: "apikey", Usage: "API key for the chat completion endpoint", Sources: src("apikey", "GOOGLE_API_KEY", "MEBOT_APIKEY")},
		&cli.StringFlag{Name: "apiurl", Value: "https://generativelanguage.googleapis.com/v1beta/openai/", Usage: "OpenAI-compatible API base URL", Sources: src("apiurl", "MEBOT_APIURL")},
		&cli.StringFlag{Name: "model", Value: "gemini-2.0-flash", Usage: "model to be used for responses", Sources: src("model", "MEBOT_MODEL")},
		&cli.IntFlag{Name: "maxtokens", Value: 4096, Usage: "maximum number of tokens to generate", Sources: src("maxtokens", "MEBOT_MAXTOKENS")},
		&cli.FloatFlag{Name: "temperature", Value: 0.7, Usage: "temperature for the completion", Sources: src("temperature", "MEBOT_TEMPERATURE")},
		&cli.DurationFlag{Name: "apitimeout", Aliases: []string{"t"}, Value: time.Minute * 2, Usage: "timeout for each completion request", Sources: src("apitimeout", "MEBOT_APITIMEOUT")},
		&cli.IntFlag{Name: "maxtoolrounds", Value: 10, Usage: "maximum completion round trips per chat turn", Sources: src("maxtoolrounds", "MEBOT_MAXTOOLROUNDS")},

		// Pushover
		&cli.StringFlag{Name: "pushoveruser", Usage: "Pushover user key for notifications", Sources: src("pushoveruser", "PUSHOVER_USER")},
		&cli.StringFlag{Name: "pushovertoken", Usage: "Pushover application token", Sources: src("pushovertoken", "PUSHOVER_TOKEN")},
		&cli.StringFlag{Name: "pushoverurl", Value: "https://api.pushover.net/1/messages.json", Usage: "Pushover messages endpoint", Sources: src("pushoverurl", "MEBOT_PUSHOVERURL")},
	}
}

func getConfigPath() string {
	// Check env first
	if v := os.Getenv("MEBOT_CONFIG"); v != "" {
		return v
	}
	// Check args
	for i, arg := range os.Args {
		if arg == "--config" || arg == "-b" {
			if i+1 < len(os.Args) {
				return os.Args[i+1]
			}
		}
		if strings.HasPrefix(arg, "--config=") {
			return strings.TrimPrefix(arg, "--config=")
		}
	}
	return ""
}

func maskKey(key string) string {
	if len(key) > 3 {
		return strings.Repeat("*", len(key)-3) + key[len(key)-3:]
	}
	return key
}

func (c *Configuration) PrintConfig() {
	fmt.Printf("addr: %s\n", c.Server.Addr)
	fmt.Printf("verbose: %t\n", c.Server.Verbose)
	fmt.Printf("name: %s\n", c.Profile.Name)
	fmt.Printf("profiledir: %s\n", c.Profile.Dir)
	fmt.Printf("linkedinurl: %s\n", c.Profile.LinkedInURL)
	fmt.Printf("githuburl: %s\n", c.Profile.GitHubURL)
	fmt.Printf("apikey: %s\n", maskKey(c.API.Key))
	fmt.Printf("apiurl: %s\n", c.API.URL)
	fmt.Printf("apitimeout: %s\n", c.API.Timeout)
	fmt.Printf("model: %s\n", c.Model.Model)
	fmt.Printf("maxtokens: %d\n", c.Model.MaxTokens)
	fmt.Printf("temperature: %f\n", c.Model.Temperature)
	fmt.Printf("maxtoolrounds: %d\n", c.Model.MaxToolRounds)
	fmt.Printf("pushoveruser: %s\n", maskKey(c.Push.User))
	fmt.Printf("pushovertoken: %s\n", maskKey(c.Push.Token))
	fmt.Printf("pushoverurl: %s\n", c.Push.URL)
}

func NewConfiguration(c *cli.Command) *Configuration {
	if c.IsSet("config") {
		zap.S().Infow("Using config file", "path", c.String("config"))
	}

	config := &Configuration{
		Server: &ServerConfig{
			Addr:    c.String("addr"),
			Verbose: c.Bool("verbose"),
		},
		Profile: &ProfileConfig{
			Name:        c.String("name"),
			Dir:         c.String("profiledir"),
			LinkedInURL: c.String("linkedinurl"),
			GitHubURL:   c.String("githuburl"),
		},
		Model: &ModelConfig{
			Model:         c.String("model"),
			MaxTokens:     c.Int("maxtokens"),
			Temperature:   float32(c.Float("temperature")),
			MaxToolRounds: c.Int("maxtoolrounds"),
		},
		API: &APIConfig{
			Key:     c.String("apikey"),
			URL:     c.String("apiurl"),
			Timeout: c.Duration("apitimeout"),
		},
		Push: &PushConfig{
			User:  c.String("pushoveruser"),
			Token: c.String("pushovertoken"),
			URL:   c.String("pushoverurl"),
		},
	}

	return config
}

func (c *Configuration) VerifyConfig() error {
	if c.API.Key == "" {
		return fmt.Errorf("missing API key (set GOOGLE_API_KEY or --apikey)")
	}
	if c.Profile.Dir == "" {
		return fmt.Errorf("missing profile directory")
	}
	if c.Push.User == "" || c.Push.Token == "" {
		zap.S().Warn("Pushover credentials not set, notifications will be logged only")
	}
	return nil
}
