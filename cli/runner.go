// Package cli provides a command-line runner for the monitor.
// It handles input polling and shows the decoded signal in a window without the full UI.
package cli

import (
	"log/slog"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	emucore "github.com/user-none/eblitui/api"
	emubridge "github.com/user-none/emdvi/bridge/ebiten"
	"github.com/user-none/emdvi/dvi"
	"github.com/user-none/emdvi/sim"
	"github.com/user-none/emdvi/ui"
)

// Runner wraps a monitor for command-line mode.
// The simulation runs on a dedicated goroutine paced by the frame rate.
// The Ebiten thread handles input polling and rendering from the shared framebuffer.
type Runner struct {
	emulator *emubridge.Emulator
	log      *slog.Logger

	// Simulation goroutine control
	emuControl        *ui.EmuControl
	sharedInput       *ui.SharedInput
	sharedFramebuffer *ui.SharedFramebuffer
	emuDone           chan struct{}
}

// NewRunner creates a new Runner wrapping the given monitor.
func NewRunner(e *emubridge.Emulator, p dvi.Profile, log *slog.Logger) *Runner {
	r := &Runner{
		emulator:          e,
		log:               log,
		emuControl:        ui.NewEmuControl(),
		sharedInput:       &ui.SharedInput{},
		sharedFramebuffer: ui.NewSharedFramebuffer(p),
		emuDone:           make(chan struct{}),
	}

	// Start simulation goroutine
	go r.emulationLoop()

	return r
}

// Close stops the simulation goroutine.
func (r *Runner) Close() {
	if r.emuControl != nil {
		r.emuControl.Stop()
		<-r.emuDone
	}
}

// Pause suspends the simulation between frames.
func (r *Runner) Pause() {
	r.emuControl.RequestPause()
}

// Resume continues a paused simulation.
func (r *Runner) Resume() {
	r.emuControl.RequestResume()
}

// emulationLoop runs on a dedicated goroutine.
func (r *Runner) emulationLoop() {
	defer close(r.emuDone)

	timing := r.emulator.GetTiming()
	frameTime := time.Duration(float64(time.Second) / float64(timing.FPS))
	lastFrameTime := time.Now()
	var frames uint64

	for {
		if !r.emuControl.CheckPause() {
			return
		}

		r.emulator.SetInput(0, r.sharedInput.Read())

		// Play one frame of the signal
		start := time.Now()
		r.emulator.RunFrame()
		frames++

		r.sharedFramebuffer.Update(
			r.emulator.GetFramebuffer(),
			r.emulator.GetFramebufferStride(),
			r.emulator.GetActiveHeight(),
		)

		if frames%uint64(timing.FPS*10) == 0 {
			st := r.emulator.Sink().Stats()
			r.log.Debug("cli: signal",
				"frames", st.Frames,
				"bad_frames", st.BadFrames,
				"bad_symbols", st.BadSymbols,
				"frame_time", time.Since(start),
			)
		}

		elapsed := time.Since(lastFrameTime)
		sleepTime := frameTime - elapsed
		if sleepTime > time.Millisecond {
			time.Sleep(sleepTime)
		}

		lastFrameTime = time.Now()
	}
}

// Update implements ebiten.Game. The simulation pauses while the window
// is unfocused.
func (r *Runner) Update() error {
	focused := ebiten.IsFocused()
	switch paused := r.emuControl.IsPaused(); {
	case !focused && !paused:
		r.sharedInput.Set(0)
		r.Pause()
		r.log.Debug("cli: paused")
	case focused && paused:
		r.Resume()
		r.log.Debug("cli: resumed")
	}
	if !focused {
		return nil
	}

	r.pollInputToShared()
	return nil
}

// Draw implements ebiten.Game.
func (r *Runner) Draw(screen *ebiten.Image) {
	pixels, stride, height, seq := r.sharedFramebuffer.Read()
	if seq == 0 {
		return
	}
	r.emulator.DrawCachedFramebuffer(screen, pixels, stride, height, seq)
}

// Layout implements ebiten.Game.
func (r *Runner) Layout(outsideWidth, outsideHeight int) (int, int) {
	return r.emulator.Layout(outsideWidth, outsideHeight)
}

// pollInputToShared reads keyboard and gamepad input and writes to shared state.
func (r *Runner) pollInputToShared() {
	// Keyboard (arrows to change pattern, J or Space for next, Enter toggles the signal)
	left := ebiten.IsKeyPressed(ebiten.KeyA) || ebiten.IsKeyPressed(ebiten.KeyArrowLeft)
	right := ebiten.IsKeyPressed(ebiten.KeyD) || ebiten.IsKeyPressed(ebiten.KeyArrowRight)
	btnA := ebiten.IsKeyPressed(ebiten.KeyJ) || ebiten.IsKeyPressed(ebiten.KeySpace)
	start := ebiten.IsKeyPressed(ebiten.KeyEnter)

	// Gamepad support (all connected gamepads)
	for _, id := range ebiten.AppendGamepadIDs(nil) {
		if !ebiten.IsStandardGamepadLayoutAvailable(id) {
			continue
		}
		if ebiten.IsStandardGamepadButtonPressed(id, ebiten.StandardGamepadButtonLeftLeft) {
			left = true
		}
		if ebiten.IsStandardGamepadButtonPressed(id, ebiten.StandardGamepadButtonLeftRight) {
			right = true
		}
		if ebiten.IsStandardGamepadButtonPressed(id, ebiten.StandardGamepadButtonRightBottom) {
			btnA = true
		}
		if ebiten.IsStandardGamepadButtonPressed(id, ebiten.StandardGamepadButtonCenterRight) {
			start = true
		}
	}

	r.sharedInput.Set(Buttons(left, right, btnA, start))
}

// Buttons packs button state into the monitor's input bitmask.
func Buttons(left, right, btnA, start bool) uint32 {
	var b uint32
	if left {
		b |= 1 << emucore.ButtonLeft
	}
	if right {
		b |= 1 << emucore.ButtonRight
	}
	if btnA {
		b |= 1 << sim.ButtonA
	}
	if start {
		b |= 1 << sim.ButtonStart
	}
	return b
}
