//go:build tinygo

package pico

import (
	"fmt"
	"image/color"
	"machine"
	"time"

	"tinygo.org/x/drivers/ssd1306"
	"tinygo.org/x/drivers/ws2812"
	"tinygo.org/x/tinyfont"
	"tinygo.org/x/tinyfont/proggy"

	"github.com/MRamiBalles/BobTamagotchi/firmware/internal/display"
	"github.com/MRamiBalles/BobTamagotchi/firmware/internal/hal"
)

// Board wiring.
const (
	PinLEDs   = machine.GP7
	PinButton = machine.GP6
	PinBuzzer = machine.GP21
	PinSDA    = machine.GP14
	PinSCL    = machine.GP15
	PinAxisY  = machine.ADC0 // GP26
	PinAxisX  = machine.ADC1 // GP27

	oledAddress = 0x3C
)

var textColor = color.RGBA{R: 255, G: 255, B: 255, A: 255}

// Open configures every peripheral. Any failure is wrapped in hal.ErrHardware.
func Open() (hal.Panel, error) {
	// LED matrix
	PinLEDs.Configure(machine.PinConfig{Mode: machine.PinOutput})
	leds := &ledMatrix{dev: ws2812.New(PinLEDs)}

	// OLED
	i2c := machine.I2C1
	if err := i2c.Configure(machine.I2CConfig{Frequency: 400 * machine.KHz, SDA: PinSDA, SCL: PinSCL}); err != nil {
		return hal.Panel{}, fmt.Errorf("%w: i2c: %v", hal.ErrHardware, err)
	}
	oled := ssd1306.NewI2C(i2c)
	oled.Configure(ssd1306.Config{Width: ScreenWidth, Height: ScreenHeight, Address: oledAddress, VccState: ssd1306.SWITCHCAPVCC})
	oled.ClearDisplay()
	screen := &textScreen{dev: &oled}

	// Buzzer
	pwm := machine.PWM2
	if err := pwm.Configure(machine.PWMConfig{}); err != nil {
		return hal.Panel{}, fmt.Errorf("%w: pwm: %v", hal.ErrHardware, err)
	}
	ch, err := pwm.Channel(PinBuzzer)
	if err != nil {
		return hal.Panel{}, fmt.Errorf("%w: buzzer channel: %v", hal.ErrHardware, err)
	}
	buzzer := &pwmBuzzer{pwm: pwm, ch: ch}

	// Joystick
	machine.InitADC()
	stick := &joystick{x: machine.ADC{Pin: PinAxisX}, y: machine.ADC{Pin: PinAxisY}}
	if err := stick.x.Configure(machine.ADCConfig{}); err != nil {
		return hal.Panel{}, fmt.Errorf("%w: adc x: %v", hal.ErrHardware, err)
	}
	if err := stick.y.Configure(machine.ADCConfig{}); err != nil {
		return hal.Panel{}, fmt.Errorf("%w: adc y: %v", hal.ErrHardware, err)
	}

	// Button, active low
	PinButton.Configure(machine.PinConfig{Mode: machine.PinInputPullup})
	button := &pushButton{pin: PinButton}

	return hal.Panel{Pixels: leds, Display: screen, Buzzer: buzzer, Analog: stick, Buttons: button}, nil
}

// FailLoop signals a hardware failure on the Pico LED forever.
func FailLoop() {
	led := machine.LED
	led.Configure(machine.PinConfig{Mode: machine.PinOutput})
	for {
		led.Low()
		time.Sleep(100 * time.Millisecond)
		led.High()
		time.Sleep(100 * time.Millisecond)
	}
}

type ledMatrix struct {
	dev ws2812.Device
	buf [display.LEDCount]color.RGBA
}

func (m *ledMatrix) SetPixel(index int, r, g, b uint8) {
	if index < 0 || index >= len(m.buf) {
		return
	}
	m.buf[index] = color.RGBA{R: r, G: g, B: b, A: 255}
}

func (m *ledMatrix) Flush() error {
	return m.dev.WriteColors(m.buf[:])
}

type textScreen struct {
	dev *ssd1306.Device
}

func (s *textScreen) ShowLines(lines []string) error {
	s.dev.ClearBuffer()
	for i, line := range VisibleLines(lines) {
		tinyfont.WriteLine(s.dev, &proggy.TinySZ8pt7b, 0, LineBaseline(i), line, textColor)
	}
	return s.dev.Display()
}

func (s *textScreen) ShowStatus(st display.Status) error {
	return s.ShowLines(display.StatusLines(st))
}

type pwmBuzzer struct {
	pwm interface {
		SetPeriod(period uint64) error
		Top() uint32
		Set(channel uint8, value uint32)
	}
	ch uint8
}

func (b *pwmBuzzer) PlayTone(hz uint32, d time.Duration) {
	if hz == 0 {
		time.Sleep(d)
		return
	}
	if err := b.pwm.SetPeriod(uint64(time.Second) / uint64(hz)); err != nil {
		time.Sleep(d)
		return
	}
	b.pwm.Set(b.ch, b.pwm.Top()/2)
	time.Sleep(d)
	b.pwm.Set(b.ch, 0)
}

type joystick struct {
	x, y machine.ADC
}

func (j *joystick) ReadAxis(a hal.Axis) uint16 {
	if a == hal.AxisY {
		return ScaleADC(j.y.Get())
	}
	return ScaleADC(j.x.Get())
}

type pushButton struct {
	pin machine.Pin
}

func (b *pushButton) IsPressed(btn hal.Button) bool {
	if btn != hal.ButtonMain {
		return false
	}
	return !b.pin.Get()
}
