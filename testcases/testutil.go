package testcases

import (
	"context"
	"os"
	"testing"

	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/spf13/viper"
	"github.com/tbxark/formstate"
)

type Config struct {
	APIKey  string `mapstructure:"api_key"`
	BaseURL string `mapstructure:"base_url"`
	Model   string `mapstructure:"model"`
}

func loadConfig(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetEnvPrefix("FORMSTATE")
	v.AutomaticEnv()
	if err := v.ReadInConfig(); err != nil {
		return nil, err
	}
	var conf Config
	if err := v.Unmarshal(&conf); err != nil {
		return nil, err
	}
	return &conf, nil
}

// InitChatModel builds a live chat model from ../config.json. The test is
// skipped unless FORMSTATE_RUN_LIVE_TESTS=1.
func InitChatModel(t *testing.T) *openai.ChatModel {
	if os.Getenv("FORMSTATE_RUN_LIVE_TESTS") != "1" {
		t.Skip("set FORMSTATE_RUN_LIVE_TESTS=1 to run live LLM tests")
		return nil
	}

	ctx := context.Background()
	conf, err := loadConfig("../config.json")
	if err != nil {
		t.Skipf("failed to load config: %v", err)
		return nil
	}
	if conf.APIKey == "" {
		t.Skip("config.json api_key is empty")
		return nil
	}
	chatModel, err := openai.NewChatModel(ctx, &openai.ChatModelConfig{
		APIKey:  conf.APIKey,
		Model:   conf.Model,
		BaseURL: conf.BaseURL,
	})
	if err != nil {
		t.Fatalf("failed to init chat model: %v", err)
		return nil
	}
	return chatModel
}

// NewRegistrationController builds a controller for UserRegistrationForm. When
// validator is nil the local rule set is used.
func NewRegistrationController(t *testing.T, initial UserRegistrationForm, validator formstate.Validator[UserRegistrationForm]) (*formstate.Controller[UserRegistrationForm], *[]UserRegistrationForm) {
	t.Helper()
	if validator == nil {
		validator = formstate.ValidatorFunc[UserRegistrationForm](ValidateRegistration)
	}
	submitted := &[]UserRegistrationForm{}
	c := formstate.New(formstate.Config[UserRegistrationForm]{
		InitialValues: initial,
		Validator:     validator,
		OnSubmit: func(_ context.Context, v UserRegistrationForm) error {
			*submitted = append(*submitted, v)
			return nil
		},
		ID: t.Name(),
	})
	return c, submitted
}
