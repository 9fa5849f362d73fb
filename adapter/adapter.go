package adapter

import (
	"log/slog"

	emucore "github.com/user-none/eblitui/api"
	"github.com/user-none/emdvi/dvi"
	"github.com/user-none/emdvi/sim"
)

// Compile-time interface check.
var _ emucore.CoreFactory = (*Factory)(nil)

// Factory implements emucore.CoreFactory for the simulated DVI monitor.
// The loaded "ROM" is an image file shown on the monitor.
type Factory struct {
	// Logger receives controller and simulator logs; nil uses slog.Default.
	Logger *slog.Logger
}

// SystemInfo returns system metadata for UI configuration.
func (f *Factory) SystemInfo() emucore.SystemInfo {
	p := dvi.DVI640x480
	return emucore.SystemInfo{
		Name:            dvi.Name,
		ConsoleName:     "DVI Monitor",
		Extensions:      []string{".png", ".jpg", ".jpeg", ".gif", ".bmp", ".webp"},
		ScreenWidth:     p.Width(),
		MaxScreenHeight: p.VActive,
		AspectRatio:     4.0 / 3.0,
		SampleRate:      48000,
		Buttons: []emucore.Button{
			{Name: "Next Pattern", ID: sim.ButtonA, DefaultKey: "J", DefaultPad: "A"},
			{Name: "Signal", ID: sim.ButtonStart, DefaultKey: "Enter", DefaultPad: "Start"},
		},
		Players: 1,
		CoreOptions: []emucore.CoreOption{
			{
				Key:         "output",
				Label:       "Signal Output",
				Description: "Drive the DVI link",
				Type:        emucore.CoreOptionBool,
				Default:     "true",
				Category:    emucore.CoreOptionCategoryInput,
			},
		},
		DataDirName:   dvi.Name,
		CoreName:      dvi.Name,
		CoreVersion:   dvi.Version,
		SerializeSize: sim.SerializeSize(),
	}
}

// CreateEmulator creates a monitor showing the image in rom. An empty rom
// shows the built-in patterns only.
func (f *Factory) CreateEmulator(rom []byte, region emucore.Region) (emucore.Emulator, error) {
	log := f.Logger
	if log == nil {
		log = slog.Default()
	}
	m, err := sim.NewMonitor(dvi.DVI640x480, rom, log)
	if err != nil {
		return nil, err
	}
	m.SetRegion(region)
	return m, nil
}

// DetectRegion reports NTSC; DVI timing has no region.
func (f *Factory) DetectRegion(rom []byte) (emucore.Region, bool) {
	return emucore.RegionNTSC, false
}
