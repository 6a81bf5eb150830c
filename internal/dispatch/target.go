package dispatch

import (
	"context"
	"fmt"
)

// Dispatcher starts a build on the external build system.
type Dispatcher interface {
	Dispatch(ctx context.Context, target Target) error
}

// Target names the workflow to run. It is fixed per deployment.
type Target struct {
	Owner    string
	Repo     string
	Workflow string // workflow file name (e.g. "build.yml") or numeric ID
	Ref      string // branch, tag or SHA
}

func (t Target) Validate() error {
	if t.Owner == "" || t.Repo == "" || t.Workflow == "" || t.Ref == "" {
		return fmt.Errorf("dispatch target is incomplete: %s", t)
	}
	return nil
}

func (t Target) String() string {
	return fmt.Sprintf("%s/%s:%s@%s", t.Owner, t.Repo, t.Workflow, t.Ref)
}
