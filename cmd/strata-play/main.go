package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/strata-audio/strata"
	"github.com/strata-audio/strata/engine"
	"github.com/strata-audio/strata/oto"
	"github.com/strata-audio/strata/version"
)

func main() {
	stdout := flag.Bool("s", false, "Do not write files; write to standard output instead.")
	help := flag.Bool("h", false, "Show help.")
	directory := flag.String("o", "", "Directory where to output all files. The directory and its parents are created if needed. By default, everything is placed in the same directory where the preset file is.")
	play := flag.Bool("p", false, "Play the presets through the audio device (default behaviour when no other output is defined).")
	live := flag.String("midi", "", "Play live: listen to the first MIDI input whose name has the given prefix. Use \"*\" for the first available input.")
	rawOut := flag.Bool("r", false, "Output the rendered demo phrase as .raw file. By default, saves stereo float32 buffer to disk.")
	wavOut := flag.Bool("w", false, "Output the rendered demo phrase as .wav file. By default, saves stereo float32 buffer to disk.")
	pcm := flag.Bool("c", false, "Convert audio to 16-bit signed PCM when outputting.")
	sampleRate := flag.Int("rate", 44100, "Sample rate in Hz.")
	versionFlag := flag.Bool("v", false, "Print version.")
	flag.Usage = printUsage
	flag.Parse()
	if *versionFlag {
		fmt.Println(version.VersionOrHash)
		os.Exit(0)
	}
	if flag.NArg() == 0 || *help {
		flag.Usage()
		os.Exit(0)
	}
	if !*rawOut && !*wavOut {
		*play = true
	}
	var audioContext strata.AudioContext
	if *play || *live != "" {
		var err error
		audioContext, err = oto.NewContext(*sampleRate)
		if err != nil {
			fmt.Fprintf(os.Stderr, "could not acquire oto AudioContext: %v\n", err)
			os.Exit(1)
		}
	}
	process := func(filename string) error {
		output := func(extension string, contents []byte) error {
			if *stdout {
				fmt.Print(contents)
				return nil
			}
			_, name := filepath.Split(filename)
			dir := *directory
			if dir == "" {
				var err error
				dir, err = os.Getwd()
				if err != nil {
					return fmt.Errorf("could not get working directory, specify the output directory explicitly: %v", err)
				}
			}
			name = strings.TrimSuffix(name, filepath.Ext(name)) + extension
			f := filepath.Join(dir, name)
			if err := os.MkdirAll(dir, os.ModePerm); err != nil {
				return fmt.Errorf("could not create output directory %v: %v", dir, err)
			}
			if err := os.WriteFile(f, contents, 0644); err != nil {
				return fmt.Errorf("could not write file %v: %v", f, err)
			}
			return nil
		}
		inputBytes, err := os.ReadFile(filename)
		if err != nil {
			return fmt.Errorf("could not read file %v: %v", filename, err)
		}
		preset, err := strata.ParsePreset(inputBytes)
		if err != nil {
			return fmt.Errorf("could not parse preset: %v", err)
		}
		eng := engine.New(float32(*sampleRate))
		if err := loadPreset(eng, &preset); err != nil {
			return err
		}
		if *live != "" {
			return playLive(eng, audioContext, *live)
		}
		buffer := renderDemo(eng, *sampleRate)
		var playWaiter strata.CloserWaiter
		if *play {
			playWaiter = audioContext.Play(buffer.Source())
		}
		if *rawOut {
			raw, err := buffer.Raw(*pcm)
			if err != nil {
				return fmt.Errorf("could not generate .raw file: %v", err)
			}
			if err := output(".raw", raw); err != nil {
				return fmt.Errorf("error outputting .raw file: %v", err)
			}
		}
		if *wavOut {
			wav, err := buffer.Wav(*sampleRate, *pcm)
			if err != nil {
				return fmt.Errorf("could not generate .wav file: %v", err)
			}
			if err := output(".wav", wav); err != nil {
				return fmt.Errorf("error outputting .wav file: %v", err)
			}
		}
		if *play {
			playWaiter.Wait()
		}
		return nil
	}
	retval := 0
	for _, param := range flag.Args() {
		if err := process(param); err != nil {
			fmt.Fprintf(os.Stderr, "could not process file %v: %v\n", param, err)
			retval = 1
		}
	}
	os.Exit(retval)
}

func loadPreset(eng *engine.Engine, preset *strata.Preset) error {
	if err := eng.SetParams(preset.Params); err != nil {
		return fmt.Errorf("preset parameters rejected: %v", err)
	}
	for slot, ps := range preset.Samples {
		if ps == nil {
			continue
		}
		sample, err := ps.Decode()
		if err != nil {
			return fmt.Errorf("could not decode sample %d: %v", slot, err)
		}
		if err := eng.LoadSample(slot, sample); err != nil {
			return err
		}
	}
	return nil
}

// renderDemo renders an arpeggiated chord so a preset can be auditioned or
// exported without a MIDI device.
func renderDemo(eng *engine.Engine, sampleRate int) strata.AudioBuffer {
	notes := []byte{48, 60, 64, 67, 72, 67, 64, 60}
	step := sampleRate / 2
	tail := sampleRate * 2
	buffer := make(strata.AudioBuffer, step*len(notes)+tail)
	var events []strata.Event
	for i, n := range notes {
		events = append(events, strata.NoteOnEvent(i*step, n, 0.8))
		events = append(events, strata.NoteOffEvent(i*step+step*3/4, n))
	}
	eng.Render(buffer, events)
	return buffer
}

func playLive(eng *engine.Engine, audioContext strata.AudioContext, namePrefix string) error {
	midiContext := newMIDIContext(eng)
	defer midiContext.Close()
	if err := midiContext.Open(namePrefix); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "listening to %v, ctrl-c to quit\n", midiContext.PortName())
	playWaiter := audioContext.Play(eng)
	defer playWaiter.Close()
	for {
		time.Sleep(time.Second)
	}
}

func printUsage() {
	fmt.Fprintf(os.Stderr, "Strata command line utility for playing .yml preset files.\nUsage: %s [flags] [path ...]\n", os.Args[0])
	flag.PrintDefaults()
}
