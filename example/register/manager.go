package main

import (
	"context"
	"log/slog"
)

type RegistrationManager struct {
	logger *slog.Logger
}

func (r *RegistrationManager) Submit(ctx context.Context, form Registration) error {
	r.logger.InfoContext(ctx, "Registration submitted", "name", form.Name, "email", form.Email, "age", form.Age)
	return nil
}
