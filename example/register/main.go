package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/tbxark/formstate"
	"github.com/tbxark/formstate/fill"
	"github.com/tbxark/formstate/store"
	"github.com/tbxark/formstate/validate"
)

func main() {
	conf := flag.String("config", "", "path to config file")
	flag.Parse()
	config, err := loadConfig(*conf)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	err = startApp(context.Background(), config)
	if err != nil {
		log.Fatalf("start app: %v", err)
	}
}

func startApp(ctx context.Context, config *Config) error {
	logger, closeLogs, err := newLogger(config)
	if err != nil {
		return fmt.Errorf("open logs: %w", err)
	}
	defer func() { _ = closeLogs() }()
	slog.SetDefault(logger)

	var validator formstate.Validator[Registration] = formstate.ValidatorFunc[Registration](validateRegistration)
	var filler *fill.ModelFiller[Registration]
	if config.APIKey != "" {
		cm, err := openai.NewChatModel(ctx, &openai.ChatModelConfig{
			APIKey:  config.APIKey,
			Model:   config.Model,
			BaseURL: config.BaseURL,
		})
		if err != nil {
			return err
		}
		filler, err = fill.NewModelFiller[Registration](cm, fill.WithGuidance(map[string]string{
			"age":        "整数年龄",
			"newsletter": "用户明确同意订阅时为 true",
		}))
		if err != nil {
			return err
		}
		if config.ModelValidator {
			schema, err := registrationSchema()
			if err != nil {
				return err
			}
			validator, err = validate.NewModelValidator[Registration](cm,
				validate.WithLang("Chinese"),
				validate.WithFields(registrationFields()...),
				validate.WithRules("JSON Schema:\n"+schema),
			)
			if err != nil {
				return err
			}
		}
	}

	manager := &RegistrationManager{logger: logger}
	ctrl := formstate.New(formstate.Config[Registration]{
		Validator: validator,
		OnSubmit:  manager.Submit,
		Logger:    logger,
	})

	program := tea.NewProgram(newFormModel(ctx, ctrl, filler))
	cancel := ctrl.Subscribe(func(s store.State[Registration]) {
		// Send blocks while Update runs, and Update itself triggers publishes.
		go program.Send(stateMsg(s))
	})
	defer cancel()

	logger.Info("Registration form started", "form_id", ctrl.ID(), "model", config.Model)
	_, err = program.Run()
	return err
}
