package media

import (
	"fmt"
	"sync"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/speaker"

	spoolerrors "github.com/tessro/spool/internal/errors"
)

// Output is the sink decoded audio is mixed into.
type Output interface {
	Play(s beep.Streamer)
	Clear()
	Lock()
	Unlock()
}

var (
	speakerOnce sync.Once
	speakerErr  error
	speakerRate beep.SampleRate
)

type speakerOutput struct{}

// OpenSpeaker initializes the system audio device. The device is opened once
// per process; later calls return the same output and its original rate.
func OpenSpeaker(rate beep.SampleRate, buffer time.Duration) (Output, beep.SampleRate, error) {
	speakerOnce.Do(func() {
		speakerRate = rate
		if err := speaker.Init(rate, rate.N(buffer)); err != nil {
			speakerErr = fmt.Errorf("%w: %v", spoolerrors.ErrNoAudioDevice, err)
		}
	})
	if speakerErr != nil {
		return nil, 0, speakerErr
	}
	return speakerOutput{}, speakerRate, nil
}

func (speakerOutput) Play(s beep.Streamer) { speaker.Play(s) }
func (speakerOutput) Clear()               { speaker.Clear() }
func (speakerOutput) Lock()                { speaker.Lock() }
func (speakerOutput) Unlock()              { speaker.Unlock() }
