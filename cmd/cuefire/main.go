// Command cuefire drives a running display from the keyboard, sending
// test traffic to the /cue, /description and /color addresses. It
// deliberately mixes the color encodings consoles use: hex strings,
// packed integers and separate channel components.
package main

import (
	"flag"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/eiannone/keyboard"

	"github.com/RockBacon9922/theatremix-remote-display/config"
	"github.com/RockBacon9922/theatremix-remote-display/cue"
	"github.com/RockBacon9922/theatremix-remote-display/osc"
)

// sender is satisfied by both the UDP client and the SLIP stream client.
type sender interface {
	Send(*osc.Message) error
}

var show = []struct {
	cue, desc, color string
}{
	{"0.5", "House to half", "#808080"},
	{"1", "Blackout, curtain up", "#202020"},
	{"1.5", "Act 1 opening", "#ff8800"},
	{"12", "Thunder and lightning", "#4060ff"},
	{"54", "Pyro standby", "#ff0000"},
	{"54.1", "Pyro go", "#ff4000"},
	{"99", "Curtain call", "#ffd700"},
}

var palette = []cue.Color{
	{R: 0xff, G: 0x88, B: 0x00, A: 0xff},
	{R: 0x40, G: 0x60, B: 0xff, A: 0xff},
	{R: 0xff, G: 0x00, B: 0x00, A: 0xff},
	{R: 0x00, G: 0xc0, B: 0x60, A: 0xff},
	{R: 0xff, G: 0xd7, B: 0x00, A: 0xff},
}

func main() {
	host := flag.String("host", "127.0.0.1", "display host")
	port := flag.Int("port", config.DefaultPort, "display port")
	useTCP := flag.Bool("tcp", false, "send SLIP framed OSC over TCP instead of UDP")
	flag.Parse()

	var snd sender
	if *useTCP {
		client, err := osc.DialStream(fmt.Sprintf("%s:%d", *host, *port))
		if err != nil {
			log.Fatal("connect failed", "err", err)
		}
		defer client.Close()
		snd = client
	} else {
		snd = osc.NewClient(*host, *port)
	}

	if err := keyboard.Open(); err != nil {
		log.Fatal("keyboard unavailable", "err", err)
	}
	defer keyboard.Close()

	fmt.Printf("Sending to %s:%d\r\n", *host, *port)
	fmt.Println("1-9 cue number, n/space next cue, d description, c packed color, r rgb color, ESC quit")

	step := 0
	colorIdx := 0
	for {
		char, key, err := keyboard.GetKey()
		if err != nil {
			log.Fatal("keyboard read failed", "err", err)
		}

		switch {
		case key == keyboard.KeyEsc || char == 'q':
			return

		case char >= '1' && char <= '9':
			send(snd, osc.NewMessage(cue.AddressCue, osc.String(string(char))))
			fmt.Printf("cue %c\r\n", char)

		case char == 'n' || key == keyboard.KeySpace:
			s := show[step%len(show)]
			step++
			send(snd, osc.NewMessage(cue.AddressCue, osc.String(s.cue)))
			send(snd, osc.NewMessage(cue.AddressDescription, osc.String(s.desc)))
			send(snd, osc.NewMessage(cue.AddressColor, osc.String(s.color)))
			fmt.Printf("cue %s %q %s\r\n", s.cue, s.desc, s.color)

		case char == 'd':
			s := show[step%len(show)]
			send(snd, osc.NewMessage(cue.AddressDescription, osc.String(s.desc)))
			fmt.Printf("description %q\r\n", s.desc)

		case char == 'c':
			c := palette[colorIdx%len(palette)]
			colorIdx++
			packed := int32(uint32(c.R)<<24 | uint32(c.G)<<16 | uint32(c.B)<<8 | uint32(c.A))
			send(snd, osc.NewMessage(cue.AddressColor, osc.Int32(packed)))
			fmt.Printf("color %s as packed int\r\n", c.Hex())

		case char == 'r':
			c := palette[colorIdx%len(palette)]
			colorIdx++
			send(snd, osc.NewMessage(cue.AddressColor,
				osc.Int32(int32(c.R)), osc.Int32(int32(c.G)), osc.Int32(int32(c.B))))
			fmt.Printf("color %s as components\r\n", c.Hex())
		}
	}
}

func send(snd sender, msg *osc.Message) {
	if err := snd.Send(msg); err != nil {
		log.Error("send failed", "msg", msg, "err", err)
	}
}
