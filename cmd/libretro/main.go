package main

import (
	libretro "github.com/user-none/eblitui/libretro"
	"github.com/user-none/emdvi/adapter"
	"github.com/user-none/emdvi/sim"
)

func init() {
	libretro.RegisterFactory(&adapter.Factory{}, []libretro.RetropadMapping{
		{RetroID: libretro.JoypadB, BitID: sim.ButtonA},         // next pattern
		{RetroID: libretro.JoypadStart, BitID: sim.ButtonStart}, // signal on/off
	})
}

func main() {}
