package cmd

import (
	"context"
	"path/filepath"

	"github.com/pkg/errors"

	"github.com/scibiz/eventapp/apiclient"
	"github.com/scibiz/eventapp/credentials"
	"github.com/scibiz/eventapp/event"
	"github.com/scibiz/eventapp/internal/config"
	"github.com/scibiz/eventapp/notify"
	"github.com/scibiz/eventapp/session"
)

const credentialsFile = "auth.json"

// app wires the client stack for one command invocation.
type app struct {
	cfg     config.Config
	manager *session.Manager
	events  *event.Service
}

func buildApp() (*app, error) {
	cfg := config.New()

	storeOptions := []credentials.FileStoreOption{}
	if passphrase := cfg.GetCredentialsPassphrase(); passphrase != "" {
		storeOptions = append(storeOptions, credentials.WithPassphrase(passphrase))
	}
	store := credentials.NewFileStore(filepath.Join(cfg.GetDataDir(), credentialsFile), storeOptions...)

	api := apiclient.New(cfg.GetBaseURL()+"/api", store,
		apiclient.WithTimeout(cfg.GetRequestTimeout()),
		apiclient.WithUserAgent("eventapp/1.0"),
	)

	manager, err := session.New(session.Deps{
		Store:    store,
		Auth:     api,
		Notifier: notify.Writer{},
	})
	if err != nil {
		return nil, errors.Wrap(err, "[buildApp] session.New")
	}

	return &app{
		cfg:     cfg,
		manager: manager,
		events:  event.NewService(api),
	}, nil
}

// requireAuth hydrates the session and gates catalog commands the way the
// app gated its authenticated navigation root.
func (a *app) requireAuth(ctx context.Context) error {
	snap := a.manager.Hydrate(ctx)
	if snap.State != session.StateAuthenticated {
		return errors.New("you are not logged in; run 'eventapp login' first")
	}
	return nil
}
