package main

import "flag"

type SidPlayerSettings struct {
	Subtune    int
	Usage      int
	Samplefreq int
	SidModel   int
}

func NewSidPlayerSettings() *SidPlayerSettings {
	return &SidPlayerSettings{}
}

func (opt *SidPlayerSettings) ParseArgs() {
	flag.IntVar(&opt.Subtune, "a", 0, "Accumulator value on init (subtune number) default = 0")
	flag.IntVar(&opt.Usage, "h", 0, "Display usage information")
	flag.IntVar(&opt.Samplefreq, "r", int(SAMPLEFREQ), "Output sample rate in Hz")
	flag.IntVar(&opt.SidModel, "m", 0, "SID model: 0 = MOS6581, 1 = MOS8580")
	flag.Parse()
}
