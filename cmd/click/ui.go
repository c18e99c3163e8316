package main

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"github.com/1634-5e/click/internal/clicker"
	"github.com/1634-5e/click/internal/config"
	"github.com/1634-5e/click/internal/session"
)

const (
	windowTitle   = "Click"
	frameInterval = 33 * time.Millisecond
)

// clickerUI renders a Controller. All methods run on the Fyne goroutine.
type clickerUI struct {
	ctrl *clicker.Controller

	slider    *widget.Slider
	rateValue *widget.Label
	topBtn    *widget.Button
	primary   *widget.Button
	errText   *canvas.Text

	last clicker.View
}

func newClickerUI(ctrl *clicker.Controller) *clickerUI {
	u := &clickerUI{ctrl: ctrl}
	v := ctrl.View()

	u.rateValue = widget.NewLabel(fmt.Sprintf("%d", v.Rate))
	u.slider = widget.NewSlider(float64(config.MinRate), float64(config.MaxRate))
	u.slider.Step = 1
	u.slider.SetValue(float64(v.Rate))
	u.slider.OnChanged = func(value float64) {
		u.rateValue.SetText(fmt.Sprintf("%d", int(math.Round(value))))
	}
	u.slider.OnChangeEnded = func(value float64) {
		if err := u.ctrl.SetRate(config.Rate(math.Round(value))); err != nil {
			slog.Warn("[ui] rate rejected", "value", value, "error", err)
		}
		u.frame()
	}

	u.topBtn = widget.NewButton("TOP", func() {
		if err := u.ctrl.ToggleAlwaysOnTop(); err != nil {
			slog.Warn("[ui] always-on-top not changed", "error", err)
		}
		u.frame()
	})

	u.primary = widget.NewButton(clicker.LabelDisarmed, func() {
		before := u.ctrl.View().Err
		u.ctrl.PressPrimary()
		if after := u.ctrl.View().Err; after != "" && after != before {
			go notifyError("Click: hotkey unavailable", after)
		}
		u.frame()
	})

	u.errText = canvas.NewText("", theme.Color(theme.ColorNameError))
	u.errText.TextSize = 10

	return u
}

func (u *clickerUI) content() fyne.CanvasObject {
	row := container.NewBorder(nil, nil, nil, container.NewHBox(u.rateValue, u.topBtn), u.slider)
	return container.NewVBox(row, u.primary, u.errText)
}

// frame is the per-frame tick: save pending edits, then re-render whatever
// changed.
func (u *clickerUI) frame() {
	u.ctrl.Tick()
	v := u.ctrl.View()
	if v == u.last {
		return
	}
	u.last = v

	if v.AlwaysOnTop {
		u.topBtn.Importance = widget.HighImportance
	} else {
		u.topBtn.Importance = widget.LowImportance
	}
	if v.Mode == clicker.Armed {
		u.topBtn.Disable()
	} else {
		u.topBtn.Enable()
	}
	u.topBtn.Refresh()

	u.primary.SetText(v.Primary)
	u.primary.Importance = primaryImportance(v)
	u.primary.Refresh()

	if u.errText.Text != v.Err {
		u.errText.Text = v.Err
		u.errText.Refresh()
	}
}

func primaryImportance(v clicker.View) widget.Importance {
	switch {
	case v.Mode == clicker.Disarmed:
		return widget.MediumImportance
	case v.Session == session.Active:
		return widget.SuccessImportance
	default:
		return widget.LowImportance
	}
}

// runUI shows the window and blocks until it is closed or ctx is done.
func runUI(ctx context.Context, ctrl *clicker.Controller, alwaysOnTop bool) {
	fApp := app.New()
	window := fApp.NewWindow(windowTitle)

	u := newClickerUI(ctrl)
	window.SetContent(u.content())
	window.Resize(fyne.NewSize(200, 80))
	window.SetFixedSize(true)

	// Always-on-top is read once at startup; toggling it applies next launch.
	fApp.Lifecycle().SetOnStarted(func() {
		if err := placeWindow(windowTitle, alwaysOnTop); err != nil {
			slog.Warn("[ui] window placement not applied", "always_on_top", alwaysOnTop, "error", err)
		}
	})

	stop := make(chan struct{})
	go func() {
		ticker := time.NewTicker(frameInterval)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ctx.Done():
				slog.Info("[ui] shutting down")
				fyne.Do(fApp.Quit)
				return
			case <-ticker.C:
				fyne.Do(u.frame)
			}
		}
	}()

	u.frame()
	window.ShowAndRun()
	close(stop)
}
