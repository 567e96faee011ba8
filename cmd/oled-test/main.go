package main

import (
	"flag"
	"fmt"
	"image"
	"image/color"
	"os"
	"time"

	"github.com/fogleman/gg"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/host/v3"
	"tinygo.org/x/tinyfont"

	"github.com/BeatGlow/oled"
	"github.com/BeatGlow/oled/draw"
	"github.com/BeatGlow/oled/emulator"
	"github.com/BeatGlow/oled/pixel"
)

func main() {
	widthFlag := flag.Int("width", 0, "Display width")
	heightFlag := flag.Int("height", 0, "Display height")
	i2cDeviceFlag := flag.Int("i2c-dev", oled.DefaultI2CConfig.Device, "I²C device number (default: use first available)")
	i2cAddrFlag := flag.Uint("i2c-addr", uint(oled.DefaultI2CConfig.Addr), "I²C device address")
	sdaPinFlag := flag.String("sda", "GPIO2", "SDA GPIO pin (soft bus)")
	sclPinFlag := flag.String("scl", "GPIO3", "SCL GPIO pin (soft bus)")
	speedFlag := flag.Int64("speed", 0, "Bus clock in kHz (default: bus default)")
	resetPinFlag := flag.String("reset", "", "Reset GPIO pin")
	batchFlag := flag.Bool("batch", false, "Send every command group and data run in one transaction")
	modeFlag := flag.String("mode", "horizontal", "Addressing mode (page or horizontal)")
	framesFlag := flag.Int("frames", 0, "Number of frames to show (default: run until interrupted)")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "Usage: %s <i2c|soft|dev|emu>\n", os.Args[0])
		os.Exit(1)
	}

	var (
		config = &oled.Config{
			Width:   *widthFlag,
			Height:  *heightFlag,
			OnError: func(err error) { fmt.Fprintln(os.Stderr, "error:", err) },
		}
		i2cConfig = &oled.I2CConfig{
			Device: *i2cDeviceFlag,
			Addr:   uint8(*i2cAddrFlag),
			Speed:  physic.Frequency(*speedFlag) * physic.KiloHertz,
			Batch:  *batchFlag,
		}
		conn  oled.Conn
		panel *emulator.Controller
		term  *emulator.Terminal
		err   error
	)

	busType := flag.Arg(0)
	if busType != "emu" {
		if _, err = host.Init(); err != nil {
			fatal(err)
		}
		if *resetPinFlag != "" {
			if i2cConfig.Reset = gpioreg.ByName(*resetPinFlag); i2cConfig.Reset == nil {
				fatal(fmt.Errorf("unknown reset pin %q", *resetPinFlag))
			}
		}
	}

	switch busType {
	case "i2c":
		conn, err = oled.OpenI2C(i2cConfig)
	case "soft":
		i2cConfig.SDA, i2cConfig.SCL = *sdaPinFlag, *sclPinFlag
		conn, err = oled.OpenI2C(i2cConfig)
	case "dev":
		if i2cConfig.Device < 0 {
			i2cConfig.Device = 1
		}
		i2cConfig.DevFS = true
		conn, err = oled.OpenI2C(i2cConfig)
	case "emu":
		panel = emulator.New(&emulator.Opts{Addr: uint16(i2cConfig.Addr)})
		term = emulator.NewTerminal(&emulator.TerminalOpts{Home: true})
		conn = oled.NewI2C(panel, i2cConfig)
		fmt.Print("\033[2J")
	default:
		err = fmt.Errorf("unsupported bus type %q", busType)
	}
	if err != nil {
		fatal(err)
	}
	fmt.Printf("using connection: %s\n", conn)

	output, err := oled.New(conn, config)
	if err != nil {
		fatal(err)
	}
	defer output.Close()
	if err = output.Init(); err != nil {
		fatal(err)
	}
	switch *modeFlag {
	case "horizontal":
	case "page":
		err = output.SetPageMode()
	default:
		err = fmt.Errorf("invalid addressing mode %q", *modeFlag)
	}
	if err != nil {
		fatal(err)
	}
	fmt.Printf("using driver: %s in %s addressing mode\n", output, output.AddressingMode())

	refresh := func() {
		if err := output.Display(); err != nil {
			fatal(err)
		}
		if term != nil {
			if err := term.RenderController(panel); err != nil {
				fatal(err)
			}
		}
	}

	// Power on splash
	refresh()
	time.Sleep(500 * time.Millisecond)

	var (
		r      = output.Bounds()
		logo   = logoImage(r.Dy() / 2)
		ticker = time.NewTicker(50 * time.Millisecond)
	)
	defer ticker.Stop()

	fmt.Println("hit control-c to stop...")
	for frame := 0; *framesFlag == 0 || frame < *framesFlag; frame++ {
		output.ClearDisplay()

		// Draw box around edge
		draw.Rectangle(output, r, pixel.On)
		draw.RoundedBox(output, image.Rect(3, 3, r.Max.X-3, 16), 4, pixel.On)
		draw.Text(output, image.Pt(8, 13), draw.DefaultFace, "BeatGlow", pixel.Off)
		draw.HorizontalRule(output, 2, pixel.On)

		span := r.Dx() - logo.Bounds().Dx()
		if span < 1 {
			span = 1
		}
		draw.Bitmap(output, image.Pt(frame%span, r.Max.Y-logo.Bounds().Dy()-2), logo)

		tinyfont.WriteLine(output.Displayer(), &tinyfont.Picopixel, int16(r.Max.X-40), int16(r.Max.Y-4),
			fmt.Sprintf("#%d", frame), color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff})

		refresh()
		<-ticker.C
	}
}

// logoImage renders a ring of the given size.
func logoImage(size int) image.Image {
	dc := gg.NewContext(size, size)
	dc.SetRGB(0, 0, 0)
	dc.Clear()
	dc.SetRGB(1, 1, 1)
	dc.SetLineWidth(2)
	dc.DrawCircle(float64(size)/2, float64(size)/2, float64(size)/2-2)
	dc.Stroke()
	dc.DrawCircle(float64(size)/2, float64(size)/2, float64(size)/6)
	dc.Fill()
	return dc.Image()
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, "fatal: "+err.Error())
	os.Exit(1)
}
