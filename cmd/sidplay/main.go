package main

// might be useful to look at binary dumps in the terminal:
// od -h sidtune.dmp | less

// typedef unsigned char Uint8;
// void OnAudioCallback(void *userdata, Uint8 *stream, int len);
import "C"

import (
	"flag"
	"fmt"
	"log"
	"os"
	"reflect"
	"unsafe"

	resid "github.com/beachviking/resid-core/sid"
	"github.com/beachviking/resid-core/tracelog"

	"github.com/veandco/go-sdl2/sdl"
)

var (
	opt               *SidPlayerSettings
	player            *SidPlayer
	cpuplay_cnt_limit int = 882
	cpuplay_cnt       int
	dev               sdl.AudioDeviceID
)

const MAX_INSTR uint16 = 0xFFFF

//export OnAudioCallback
func OnAudioCallback(userdata unsafe.Pointer, stream *C.Uint8, length C.int) {
	n := int(length)
	hdr := reflect.SliceHeader{Data: uintptr(unsafe.Pointer(stream)), Len: n, Cap: n}
	buf := *(*[]C.Uint8)(unsafe.Pointer(&hdr))

	samples := n / 4
	out := make([]int, 0, samples)

	for len(out) < samples {
		// Run the 6510 play routine if due.
		cpuplay_cnt++
		if cpuplay_cnt >= cpuplay_cnt_limit {
			cpuplay_cnt = 0
			player.Tick()
			if player.framePeriod == 0 {
				player.framePeriod = 20000
			}
			cpuplay_cnt_limit = int(player.sampleFreq) / (int(player.clockFreq) / int(player.framePeriod))
		}

		out = append(out, player.resampler.Resample(resid.CycleCount(player.delta_t))...)
	}

	for i := 0; i < samples && i*4+3 < n; i++ {
		sample := out[i]
		sampleHi := sample >> 8
		sampleLo := sample & 0xFF
		buf[i*4] = C.Uint8(sampleLo)
		buf[i*4+1] = C.Uint8(sampleHi)
		buf[i*4+2] = C.Uint8(sampleLo)
		buf[i*4+3] = C.Uint8(sampleHi)
	}
}

func main() {
	opt = NewSidPlayerSettings()
	player = NewSidPlayer()

	opt.ParseArgs()

	if len(flag.Args()) == 0 {
		fmt.Println("Usage: sidplay [options] <sidfile>")
		os.Exit(1)
	}

	if opt.Usage == 1 {
		flag.PrintDefaults()
		os.Exit(1)
	}

	sidName := flag.Arg(0)

	if os.Getenv("SIDPLAY_TRACE") != "" {
		player.traceEnabled = true
		tracelog.SetEcho(os.Stderr)
	}

	player.setSampleRate(uint32(opt.Samplefreq))
	player.setSIDModel(resid.Model(opt.SidModel))

	if err := player.Load(sidName); err != nil {
		log.Println(err)
		os.Exit(1)
	}

	if err := sdl.Init(sdl.INIT_AUDIO); err != nil {
		log.Println(err)
		return
	}
	defer sdl.Quit()

	spec := &sdl.AudioSpec{}
	spec.Callback = sdl.AudioCallback(C.OnAudioCallback)
	spec.Samples = 4096
	spec.Channels = 2
	spec.Freq = int32(opt.Samplefreq)
	spec.Format = sdl.AUDIO_S16SYS

	var err error
	if dev, err = sdl.OpenAudioDevice("", false, spec, nil, 0); err != nil {
		log.Println(err)
		return
	}

	if opt.Subtune > -1 {
		player.currentSong = uint16(opt.Subtune)
	}

	player.Init()
	player.Start()

	sdl.PauseAudioDevice(dev, false)
	fmt.Println("Press the Enter Key to stop anytime")
	fmt.Scanln()
	sdl.CloseAudioDevice(dev)
	player.Stop()
}
