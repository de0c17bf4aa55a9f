package ui

import (
	"fmt"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"go.uber.org/zap"

	"github.com/chrisuehlinger/dropzone/page"
)

// frame is how often timers run and dirty surfaces repaint.
const frame = 16 * time.Millisecond

// Loader opens the page named by source, a file path or a built-in name.
type Loader func(source string) (*page.Page, error)

// Option configures an App.
type Option func(*App)

// WithLogger sets the app logger.
func WithLogger(l *zap.Logger) Option {
	return func(a *App) {
		if l != nil {
			a.log = l
		}
	}
}

// App is the desktop host: a window with one tab per page.
type App struct {
	app    fyne.App
	window fyne.Window
	log    *zap.Logger
	load   Loader

	ws       *Workspace
	tabs     *container.AppTabs
	status   *widget.Label
	surfaces map[*Tab]*Surface
	sources  map[*Tab]string
	items    map[*container.TabItem]*Tab

	stop chan struct{}
}

// NewApp creates the window. Pages are opened through load.
func NewApp(load Loader, opts ...Option) *App {
	a := &App{
		app:      app.NewWithID("io.github.chrisuehlinger.dropzone"),
		log:      zap.NewNop(),
		load:     load,
		ws:       NewWorkspace(1024, 720),
		surfaces: make(map[*Tab]*Surface),
		sources:  make(map[*Tab]string),
		items:    make(map[*container.TabItem]*Tab),
		stop:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(a)
	}
	a.window = a.app.NewWindow(a.ws.Window.Title)
	a.window.Resize(fyne.NewSize(float32(a.ws.Window.Width), float32(a.ws.Window.Height)))

	a.setupUI()
	a.setupKeyboardShortcuts()
	a.setupLifecycle()
	return a
}

// setupUI creates the toolbar, tab bar and status line.
func (a *App) setupUI() {
	toolbar := widget.NewToolbar(
		widget.NewToolbarAction(theme.FolderOpenIcon(), a.showOpen),
		widget.NewToolbarAction(theme.ViewRefreshIcon(), a.reload),
		widget.NewToolbarAction(theme.CancelIcon(), a.cancelDrag),
		widget.NewToolbarSeparator(),
		widget.NewToolbarAction(theme.ContentClearIcon(), a.closeActiveTab),
	)

	a.tabs = container.NewAppTabs()
	a.tabs.SetTabLocation(container.TabLocationTop)
	a.tabs.OnSelected = a.onTabSelected

	a.status = widget.NewLabel("")
	a.window.SetContent(container.NewBorder(toolbar, a.status, nil, nil, a.tabs))
}

// setupKeyboardShortcuts binds Ctrl+O, Ctrl+R, Ctrl+W and Escape.
func (a *App) setupKeyboardShortcuts() {
	bind := func(key fyne.KeyName, fn func()) {
		a.window.Canvas().AddShortcut(&desktop.CustomShortcut{
			KeyName:  key,
			Modifier: fyne.KeyModifierShortcutDefault,
		}, func(fyne.Shortcut) { fn() })
	}
	bind(fyne.KeyO, a.showOpen)
	bind(fyne.KeyR, a.reload)
	bind(fyne.KeyW, a.closeActiveTab)

	a.window.Canvas().SetOnTypedKey(func(k *fyne.KeyEvent) {
		if k.Name == fyne.KeyEscape {
			a.cancelDrag()
		}
	})
}

// setupLifecycle cancels gestures when the app loses focus, since the
// release will never arrive.
func (a *App) setupLifecycle() {
	a.app.Lifecycle().SetOnExitedForeground(func() {
		if s := a.activeSurface(); s != nil {
			s.Blur()
		}
	})
}

// OpenPage loads source into a new tab.
func (a *App) OpenPage(source string) error {
	p, err := a.load(source)
	if err != nil {
		a.log.Warn("open page failed", zap.String("source", source), zap.Error(err))
		a.status.SetText(err.Error())
		return err
	}
	tab := a.ws.Open(p)
	s := NewSurface(p)
	item := container.NewTabItem(tab.Title, s)
	a.surfaces[tab] = s
	a.sources[tab] = source
	a.items[item] = tab
	a.tabs.Append(item)
	a.tabs.Select(item)
	return nil
}

func (a *App) showOpen() {
	dialog.ShowFileOpen(func(r fyne.URIReadCloser, err error) {
		if err != nil {
			a.status.SetText(err.Error())
			return
		}
		if r == nil {
			return
		}
		path := r.URI().Path()
		r.Close()
		_ = a.OpenPage(path)
	}, a.window)
}

// reload reopens the active tab's page from its source.
func (a *App) reload() {
	tab := a.ws.ActiveTab()
	if tab == nil {
		return
	}
	p, err := a.load(a.sources[tab])
	if err != nil {
		a.status.SetText(err.Error())
		return
	}
	a.ws.Replace(a.ws.Active, p)
	s := NewSurface(p)
	a.surfaces[tab] = s
	for item, t := range a.items {
		if t == tab {
			item.Content = s
			item.Text = tab.Title
		}
	}
	a.tabs.Refresh()
	a.updateStatus()
}

func (a *App) closeActiveTab() {
	tab := a.ws.ActiveTab()
	if tab == nil {
		return
	}
	for item, t := range a.items {
		if t == tab {
			delete(a.items, item)
			a.tabs.Remove(item)
		}
	}
	delete(a.surfaces, tab)
	delete(a.sources, tab)
	a.ws.Close(a.ws.Active)
	a.updateStatus()
}

func (a *App) cancelDrag() {
	if s := a.activeSurface(); s != nil {
		s.CancelDrag()
	}
}

func (a *App) onTabSelected(item *container.TabItem) {
	if tab, ok := a.items[item]; ok {
		a.ws.Active = a.ws.IndexOf(tab)
	}
	a.updateStatus()
}

func (a *App) activeSurface() *Surface {
	tab := a.ws.ActiveTab()
	if tab == nil {
		return nil
	}
	return a.surfaces[tab]
}

func (a *App) updateStatus() {
	tab := a.ws.ActiveTab()
	text := ""
	if tab != nil {
		text = tab.Page.Title
		if n := len(tab.Page.ScriptErrors()); n > 0 {
			text = fmt.Sprintf("%s (%d script errors)", text, n)
		}
	}
	if a.status.Text != text {
		a.status.SetText(text)
	}
}

// tick drives every open page on the UI goroutine.
func (a *App) tick() {
	for _, s := range a.surfaces {
		s.Tick()
	}
	a.updateStatus()
}

// Run shows the window and blocks until it closes.
func (a *App) Run() {
	go func() {
		t := time.NewTicker(frame)
		defer t.Stop()
		for {
			select {
			case <-a.stop:
				return
			case <-t.C:
				fyne.Do(a.tick)
			}
		}
	}()
	a.window.SetOnClosed(func() {
		close(a.stop)
		for len(a.ws.Tabs) > 0 {
			a.ws.Close(0)
		}
	})
	a.window.ShowAndRun()
}
