package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"gopkg.in/mgo.v2"

	"github.com/neil066/VLSI-Verfication-Lab/bits"
	"github.com/neil066/VLSI-Verfication-Lab/dot"
	"github.com/neil066/VLSI-Verfication-Lab/parse"
	"github.com/neil066/VLSI-Verfication-Lab/prim"
	"github.com/neil066/VLSI-Verfication-Lab/rtl"
	"github.com/neil066/VLSI-Verfication-Lab/sim"
	"github.com/neil066/VLSI-Verfication-Lab/stim"
)

var stdin = bufio.NewReader(os.Stdin)

// promptInputs asks for each input bit on the terminal, looping until a
// literal 0 or 1 is entered.
func promptInputs(ports []string) map[string]bool {
	in := make(map[string]bool, len(ports))
	for _, p := range ports {
		for {
			fmt.Printf("  %s (0/1)? ", p)
			line, err := stdin.ReadString('\n')
			if err != nil && line == "" {
				log.Fatal(err)
			}
			switch strings.TrimSpace(line) {
			case "0":
				in[p] = false
			case "1":
				in[p] = true
			default:
				continue
			}
			break
		}
	}
	return in
}

// gatherInputs collects values for the given ports from the bit file, the
// stimulus file, or interactively.
func gatherInputs(ports []string, bitspath, stimpath string) map[string]bool {
	switch {
	case bitspath != "":
		file, err := os.Open(bitspath)
		if err != nil {
			log.Fatal(err)
		}
		defer file.Close()

		v, err := bits.Load(file, len(ports))
		if err != nil {
			log.Fatal(err)
		}
		in, err := v.Assign(ports)
		if err != nil {
			log.Fatal(err)
		}
		return in

	case stimpath != "":
		file, err := os.Open(stimpath)
		if err != nil {
			log.Fatal(err)
		}
		defer file.Close()

		in, err := stim.Load(file)
		if err != nil {
			log.Fatal(err)
		}
		if err := stim.Check(in, ports); err != nil {
			log.Fatal(err)
		}
		return in

	default:
		fmt.Println("Enter each input (0/1):")
		return promptInputs(ports)
	}
}

func writeDot(path string, write func(w io.Writer) error, render bool) {
	file, err := os.Create(path)
	if err != nil {
		log.Fatal(err)
	}
	if err := write(file); err != nil {
		file.Close()
		log.Fatal(err)
	}
	file.Close()
	log.Printf("DOT file generated as %q.", path)

	if !render {
		return
	}
	pdf := strings.TrimSuffix(path, ".dot") + ".pdf"
	if err := dot.Render(path, pdf); err != nil {
		// a failed render does not invalidate the simulation result
		log.Printf("render failed: %v", err)
		return
	}
	log.Printf("Generated %q.", pdf)
}

func main() {
	var file, top, gate, bitspath, stimpath, dotpath, logp, server, cache string
	var debug, local, render, stats bool

	// Command line switches ///////////////////////////////////////////////////

	flag.StringVar(&file, "f", "", "path to verilog source file (req.)")
	flag.StringVar(&top, "top", "", "name of top module; auto-detected when omitted")
	flag.StringVar(&gate, "gate", "", "simulate a single instance of the top module")
	flag.StringVar(&bitspath, "bits", "", "path to bit file with one 0/1 per input port")
	flag.StringVar(&stimpath, "stim", "", "path to JSON stimulus file")
	flag.StringVar(&dotpath, "dot", "hierarchy.dot", "path of the generated DOT file")
	flag.StringVar(&logp, "log", "", "path to file where log messages should be redirected")
	flag.StringVar(&server, "server", "localhost", "name of mongodb server")
	flag.StringVar(&cache, "cache", "", "name of cache to save parsed modules and results")

	flag.BoolVar(&debug, "debug", false, "enable debug mode")
	flag.BoolVar(&local, "local", false, "with -gate: take gate inputs directly instead of running the circuit")
	flag.BoolVar(&render, "render", false, "invoke dot to render the DOT file to PDF")
	flag.BoolVar(&stats, "stats", false, "print instance census and exit")

	flag.Parse()

	// Set log flags ///////////////////////////////////////////////////////////

	log.SetFlags(0)
	if debug {
		log.SetFlags(log.Lshortfile)
	}

	if logp != "" {
		logw, err := os.Create(logp)
		if err != nil {
			log.Fatal(err)
		}
		log.SetOutput(logw)
	}

	// Check for minimum arguments /////////////////////////////////////////////

	if file == "" && cache == "" {
		flag.PrintDefaults()
		log.Fatal("Insufficient arguments")
	}

	// Connect to mongo when a cache is named //////////////////////////////////

	var session *mgo.Session
	var err error
	if cache != "" {
		session, err = mgo.Dial(server)
		if err != nil {
			log.Fatal(err)
		}
		if err := rtl.InitMgo(session, cache, file != ""); err != nil {
			log.Fatal(err)
		}
	}

	// Parse the verilog file, or reload the table from the cache /////////////

	var design *rtl.Design
	if file != "" {
		src, err := os.Open(file)
		if err != nil {
			log.Fatal(err)
		}
		design, err = parse.New(file, src)
		src.Close()
		if err != nil {
			log.Fatal(err)
		}
		if cache != "" {
			if err := design.Save(); err != nil {
				log.Fatal(err)
			}
		}
	} else {
		design, err = rtl.LoadDesign()
		if err != nil {
			log.Fatal(err)
		}
	}
	log.Println(design)

	// Resolve top module //////////////////////////////////////////////////////

	if top == "" {
		top, err = design.Top()
		if err != nil {
			log.Fatal(err, " (use -top)")
		}
	}
	if _, ok := design.Modules[top]; !ok {
		log.Fatalf("top module %q not found in parsed file", top)
	}

	if stats {
		log.Printf("modules: %s", strings.Join(design.Names(), ", "))
		log.Printf("instance census:\n%s", design.Census())
		return
	}

	// Link ////////////////////////////////////////////////////////////////////

	s, err := sim.New(design)
	if err != nil {
		log.Fatal(err)
	}
	if !debug {
		s.Warnf = func(string, ...interface{}) {}
	}

	// Single gate mode ////////////////////////////////////////////////////////

	if gate != "" {
		simulateGate(s, design, top, gate, local, bitspath, stimpath, render)
		return
	}

	// Full design simulation //////////////////////////////////////////////////

	in := gatherInputs(design.Modules[top].Inputs(), bitspath, stimpath)

	store, err := s.Run(top, in)
	if err != nil {
		log.Fatal(err)
	}

	fmt.Println(store)

	if cache != "" {
		sim.InitMgo(session, cache, true)
		if err := store.Save(top); err != nil {
			log.Fatal(err)
		}
		sim.DoneMgo()
		if err := sim.WaitMgo(); err != nil {
			log.Fatal(err)
		}
		log.Printf("Saved %d signals to cache %q.", len(store), cache)
	}

	writeDot(dotpath, func(w io.Writer) error {
		return dot.WriteDesign(w, s, top, store)
	}, render)
}

// simulateGate evaluates one instance of the top module, either with inputs
// supplied directly or with the values the full circuit drives onto it.
func simulateGate(s *sim.Sim, design *rtl.Design, top, gate string, local bool, bitspath, stimpath string, render bool) {
	insts, err := s.Instances(top)
	if err != nil {
		log.Fatal(err)
	}

	var inst *sim.Instance
	for i := range insts {
		if insts[i].Name == gate {
			inst = &insts[i]
			break
		}
	}
	if inst == nil {
		log.Fatalf("instance %q not found in top module %q", gate, top)
	}

	// hierarchical full/half adders fold onto the FA/HA primitive tags
	g, err := prim.Lookup(inst.Type)
	if err != nil {
		log.Fatalf("gate type %q is not a supported primitive", inst.Type)
	}

	var in map[string]bool
	if local {
		in = gatherInputs(g.Inputs, bitspath, stimpath)
	} else {
		// use the values from a full circuit simulation
		topIn := gatherInputs(design.Modules[top].Inputs(), bitspath, stimpath)
		store, err := s.Run(top, topIn)
		if err != nil {
			log.Fatal(err)
		}

		in = make(map[string]bool)
		for _, b := range inst.Ins {
			if b.Actual == "" {
				continue
			}
			in[b.Formal] = store[sim.Key([]string{top}, b.Actual)]
		}
	}

	out := g.Eval(in)

	fmt.Printf("Input values: %v\n", in)
	fmt.Printf("Output values: %v\n", out)

	var ports []dot.PortValue
	for p, v := range in {
		ports = append(ports, dot.PortValue{Port: p, Value: v})
	}
	for p, v := range out {
		ports = append(ports, dot.PortValue{Port: p, Value: v, Output: true})
	}

	path := fmt.Sprintf("%s_%s.dot", gate, g.Type)
	writeDot(path, func(w io.Writer) error {
		dot.WritePrimitive(w, g.Type, gate, ports)
		return nil
	}, render)
}
