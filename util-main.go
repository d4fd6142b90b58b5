package main

import (
	"flag"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/swaywm/go-wlroots/wlroots"
	"gitlab.com/mstarongitlab/goutils/sliceutils"

	"github.com/mstarongithub/way2gay/common/ipc"
	"github.com/mstarongithub/way2gay/config"
)

var (
	utilAction *string = flag.String(
		"action",
		"outputs",
		"The action to perform. Can be one of:"+
			"\n\t- none: Do nothing"+
			"\n\t- outputs: List available outputs"+
			"\n\t- modes <output>: List available modes for an output",
	)
	outputSelection *string = flag.String(
		"output",
		"",
		"Output to perform the action on. Required for some actions",
	)
	jsonOutput *bool = flag.Bool("json", false, "Print tool results as json")
)

func utilMain(conf *config.Config) {
	if *help {
		utilHelpMessage()
		return
	}

	// Init a server, used for stuff like getting displays
	server, err := NewServer(conf)
	if err != nil {
		logrus.WithError(err).Fatal("initializing server")
	}
	if err = server.Start(); err != nil {
		logrus.WithError(err).Fatal("starting server")
	}

	switch *utilAction {
	case "none":
	case "outputs":
		utilListOutputs(server)
	case "modes":
		if *outputSelection == "" {
			fmt.Println("Output has to be specified")
			return
		}
		utilListOutputModes(server, *outputSelection)
	default:
		fmt.Printf("Unknown action %q\n", *utilAction)
	}
}

func utilHelpMessage() {
	fmt.Println("---- Help message for Way2Gay in tool mode ----")
	fmt.Println("\nIn tool mode, w2g will offer various tools for figuring out configurations and similar")
	fmt.Println("\nGeneral flags:")
	fmt.Println("\t-config: Path to the config file. Default is way2gay/config.toml in the xdg config dirs")
	fmt.Println("\t-tool: Start as a tool instead of a compositor")
	fmt.Println("\t-help: Show this help message (or the one for compositor mode if -tool is not set)")
	fmt.Println("\t-loglevel: Override the configured log level")
	fmt.Println("\nTool flags:")
	fmt.Println("\t-action: The action to perform. Can be one of:")
	fmt.Println("\t\t- (default) outputs: List available outputs")
	fmt.Println("\t\t- modes: List available modes for an output. Use with -output")
	fmt.Println("\t\t- none: Do nothing")
	fmt.Println("\t-output: Output to perform the action on. Required for -action modes")
	fmt.Println("\t-json: Print the result as json")
}

func printJSON(v any) {
	out, err := ipc.Marshal(v)
	if err != nil {
		logrus.WithError(err).Errorln("Failed to encode result")
		return
	}
	fmt.Println(out)
}

func utilListOutputs(server *Server) {
	outputs := server.GetOutputs()
	if *jsonOutput {
		resp := ipc.OutputResponse{Outputs: make([]string, 0, len(outputs)), OutputsFound: len(outputs)}
		for _, output := range outputs {
			resp.Outputs = append(resp.Outputs, output.Name())
		}
		printJSON(resp)
		return
	}
	for i, output := range outputs {
		fmt.Printf("Output %v: %s\n", i, output.Name())
	}
}

func utilListOutputModes(server *Server, outputName string) {
	outputs := server.GetOutputs()
	filtered := sliceutils.Filter(outputs, func(output *wlroots.Output) bool {
		return output.Name() == outputName
	})
	if len(filtered) == 0 {
		fmt.Printf("Output %s not found\n", outputName)
		return
	}
	modes := filtered[0].Modes()
	if *jsonOutput {
		resp := ipc.OutputResponse{
			Outputs:      []string{outputName},
			OutputModes:  map[string][]ipc.OutputMode{outputName: make([]ipc.OutputMode, 0, len(modes))},
			OutputsFound: 1,
		}
		for _, mode := range modes {
			resp.OutputModes[outputName] = append(resp.OutputModes[outputName], ipc.OutputMode{
				Width:       int(mode.Width()),
				Height:      int(mode.Height()),
				RefreshRate: int(mode.Refresh()),
				Preferred:   mode.Preferred(),
			})
		}
		printJSON(resp)
		return
	}
	fmt.Printf("Modes for output %s:\n", outputName)
	for _, mode := range modes {
		if mode.Preferred() {
			fmt.Printf("\t- %dx%d@%d(Ratio: %d) (preferred)\n", mode.Width(), mode.Height(), mode.Refresh(), mode.PictureAspectRatio())
		} else {
			fmt.Printf("\t- %dx%d@%d(Ratio: %d)\n", mode.Width(), mode.Height(), mode.Refresh(), mode.PictureAspectRatio())
		}
	}
}
