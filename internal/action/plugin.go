package action

import (
	"context"
	"errors"
	"fmt"

	"github.com/ayusman/aircursor/internal/plugin"
)

// Runner executes a plugin request. *plugin.Executor satisfies it.
type Runner interface {
	Execute(ctx context.Context, p *plugin.Plugin, req *plugin.Request) (*plugin.Response, error)
}

// PluginWindows routes window actions to an external plugin and passes
// pointer effects through to the wrapped Sink.
type PluginWindows struct {
	Sink
	plugin  *plugin.Plugin
	runner  Runner
	session string
}

// NewPluginWindows wraps next so minimize and close go to p. Actions p does
// not list in its manifest fall through to next.
func NewPluginWindows(next Sink, p *plugin.Plugin, runner Runner, session string) *PluginWindows {
	return &PluginWindows{Sink: next, plugin: p, runner: runner, session: session}
}

func (w *PluginWindows) MinimizeActiveWindow(ctx context.Context) error {
	if !w.plugin.Manifest.Supports(plugin.ActionMinimize) {
		return w.Sink.MinimizeActiveWindow(ctx)
	}
	return w.run(ctx, plugin.ActionMinimize, KindMinimize)
}

func (w *PluginWindows) CloseActiveWindow(ctx context.Context) error {
	if !w.plugin.Manifest.Supports(plugin.ActionClose) {
		return w.Sink.CloseActiveWindow(ctx)
	}
	return w.run(ctx, plugin.ActionClose, KindClose)
}

func (w *PluginWindows) run(ctx context.Context, name string, kind Kind) error {
	resp, err := w.runner.Execute(ctx, w.plugin, &plugin.Request{
		Action:  name,
		Gesture: string(kind),
		Session: w.session,
	})
	if err != nil {
		return err
	}
	if !resp.Success {
		if resp.Error == "" {
			return fmt.Errorf("plugin %s: %s refused", w.plugin.Manifest.Name, name)
		}
		return fmt.Errorf("plugin %s: %w", w.plugin.Manifest.Name, errors.New(resp.Error))
	}
	return nil
}
