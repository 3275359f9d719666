package handlers

import (
	"io/fs"

	"go.uber.org/zap"

	"github.com/atypico/journey/internal/journey"
	"github.com/atypico/journey/internal/userstore"
)

// App is what the handlers share: the single user's machine and store.
type App struct {
	Machine    *journey.Machine
	Store      *userstore.Store
	Pages      fs.FS // pages/<step>.tmpl
	ChannelURL string
	Log        *zap.Logger
}
