package scaffold_test

import (
	"os"

	"github.com/kxue43/repo-cloner/catalog"
	"github.com/kxue43/repo-cloner/scaffold"
)

type (
	multi []scaffold.Observer

	// lockOnSanitize drops write permission on the project directory right before sanitization.
	lockOnSanitize struct {
		dir string
	}
)

func (m multi) Enter(stage scaffold.Stage, req scaffold.Request, tmplt catalog.Template) {
	for _, o := range m {
		o.Enter(stage, req, tmplt)
	}
}

func (l lockOnSanitize) Enter(stage scaffold.Stage, _ scaffold.Request, _ catalog.Template) {
	if stage == scaffold.Sanitizing {
		_ = os.Chmod(l.dir, 0500)
	}
}
