// Command acm2wav converts ACM audio files to WAV.
//
// Usage:
//
//	acm2wav [flags] file.acm [file.acm ...]
//	acm2wav -o out.wav -channels 2 music.acm
//	acm2wav -format alaw -j 8 sounds/*.acm
package main

import (
	"bytes"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync/atomic"

	"github.com/dustin/go-humanize"
	"github.com/hako/durafmt"
	"github.com/remeh/sizedwaitgroup"

	acm "github.com/zrdimetc/go-acm"
	"github.com/zrdimetc/go-acm/wav"
)

type options struct {
	output   string
	offset   int
	override acm.Override
	check    bool
}

func main() {
	output := flag.String("o", "", "Output WAV file (single input only). Defaults to the input name with .wav")
	offset := flag.Int("offset", 0, "Byte offset of the ACM stream inside each input")
	channels := flag.Int("channels", 0, "Force channel count (1 or 2)")
	rate := flag.Int("rate", 0, "Force sample rate in Hz")
	bitsPerSample := flag.Int("bits", 0, "Output bits per sample: 8, 16, 24 or 32")
	format := flag.String("format", "pcm", "Output encoding: pcm, alaw or mulaw")
	jobs := flag.Int("j", runtime.NumCPU(), "Files converted in parallel")
	check := flag.Bool("check", false, "Read each written file back and verify its format")
	flag.Parse()

	inputs := flag.Args()
	if len(inputs) == 0 {
		flag.Usage()
		os.Exit(2)
	}
	if *output != "" && len(inputs) > 1 {
		log.Fatalf("-o needs exactly one input, got %d", len(inputs))
	}

	audioFormat, err := parseFormat(*format)
	if err != nil {
		log.Fatal(err)
	}

	opts := options{
		output: *output,
		offset: *offset,
		override: acm.Override{
			NumChannels:   *channels,
			SampleRate:    *rate,
			BitsPerSample: *bitsPerSample,
			Format:        audioFormat,
		},
		check: *check,
	}

	var failed atomic.Int32
	wg := sizedwaitgroup.New(max(*jobs, 1))
	for _, in := range inputs {
		wg.Add()
		go func(in string) {
			defer wg.Done()
			if err := convert(in, opts); err != nil {
				log.Printf("%s: %v", in, err)
				failed.Add(1)
			}
		}(in)
	}
	wg.Wait()

	if n := failed.Load(); n > 0 {
		log.Fatalf("%d of %d files failed", n, len(inputs))
	}
}

func parseFormat(s string) (uint16, error) {
	switch strings.ToLower(s) {
	case "pcm", "":
		return wav.AudioFormatPCM, nil
	case "alaw", "a-law":
		return wav.AudioFormatALaw, nil
	case "mulaw", "ulaw", "u-law":
		return wav.AudioFormatMULaw, nil
	}
	return 0, fmt.Errorf("unknown output format %q", s)
}

func convert(in string, opts options) error {
	data, err := os.ReadFile(in)
	if err != nil {
		return err
	}

	out := opts.output
	if out == "" {
		out = strings.TrimSuffix(in, filepath.Ext(in)) + ".wav"
	}

	var buf bytes.Buffer
	h, err := acm.WriteWAV(&buf, data, opts.offset, &opts.override)
	if err != nil {
		return err
	}
	if err := os.WriteFile(out, buf.Bytes(), 0o644); err != nil {
		return err
	}

	log.Printf("%s -> %s: %d ch, %d Hz, %s, %s -> %s",
		in, out, h.NumChannels, h.SampleRate,
		durafmt.Parse(h.Duration()).LimitFirstN(2),
		humanize.Bytes(uint64(len(data))), humanize.Bytes(uint64(buf.Len())))

	if opts.check {
		return verify(out, buf.Bytes(), h, opts.override)
	}
	return nil
}

// verify reads a written file back and compares it with the header.
func verify(name string, data []byte, h acm.Header, o acm.Override) error {
	want, err := o.WavFormat(h)
	if err != nil {
		return err
	}

	r := wav.NewReader(bytes.NewReader(data))
	got, err := r.Format()
	if err != nil {
		return fmt.Errorf("check %s: %w", name, err)
	}
	if *got != want {
		return fmt.Errorf("check %s: format %+v, want %+v", name, *got, want)
	}

	d, err := r.Duration()
	if err != nil {
		return fmt.Errorf("check %s: %w", name, err)
	}
	n, err := io.Copy(io.Discard, r)
	if err != nil {
		return fmt.Errorf("check %s: %w", name, err)
	}
	if size := wav.DataSize(want, h.NumSamples); uint32(n) != size {
		return fmt.Errorf("check %s: %d data bytes, want %d", name, n, size)
	}

	log.Printf("%s: ok, %s", name, durafmt.Parse(d).LimitFirstN(2))
	return nil
}
