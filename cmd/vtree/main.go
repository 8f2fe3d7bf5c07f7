package main

import (
	"flag"
	"log"
	"os"

	"github.com/neil066/VLSI-Verfication-Lab/parse"
	"github.com/neil066/VLSI-Verfication-Lab/rtl"
)

var indent string = "|   "

var design *rtl.Design
var upto int

// Tree prints the module hierarchy below top, one line per instance.
func Tree(prefix string, level int, top, name string) {
	if upto > 0 && level > upto {
		return
	}

	log.Printf("%s%s (%s)", prefix, top, name)

	m, ok := design.Modules[top]
	if !ok {
		return
	}

	for _, inst := range m.Insts {
		if _, ok := design.Modules[inst.Type]; ok {
			Tree(prefix+indent, level+1, inst.Type, inst.Name)
		}
	}
}

func main() {
	var file, top string

	flag.StringVar(&file, "f", "", "path to verilog source file (req.)")
	flag.StringVar(&top, "top", "", "name of top module to explore; auto-detected when omitted")
	flag.IntVar(&upto, "upto", 0, "depth to which hierarchy is sought. 0 for full hierarchy")

	flag.Parse()

	log.SetFlags(0)
	log.SetOutput(os.Stdout)

	if file == "" {
		flag.PrintDefaults()
		log.Fatal("Insufficient arguments")
	}

	src, err := os.Open(file)
	if err != nil {
		log.Fatal(err)
	}

	design, err = parse.New(file, src)
	src.Close()
	if err != nil {
		log.Fatal(err)
	}

	if top == "" {
		top, err = design.Top()
		if err != nil {
			log.Fatal(err, " (use -top)")
		}
	}

	Tree("", 0, top, top)
}
