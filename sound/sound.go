package sound

import (
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/speaker"
)

const sampleRate = beep.SampleRate(44100)

// Player はゲーム中の効果音を鳴らします
type Player interface {
	Click()
	Detonate()
	Victory()
	Close()
}

// Nop は何も鳴らさない Player です
type Nop struct{}

func (Nop) Click()    {}
func (Nop) Detonate() {}
func (Nop) Victory()  {}
func (Nop) Close()    {}

type note struct {
	freq float64
	dur  time.Duration
}

var (
	clickNotes    = []note{{1320, 15 * time.Millisecond}}
	detonateNotes = []note{{220, 120 * time.Millisecond}, {165, 160 * time.Millisecond}, {110, 260 * time.Millisecond}}
	victoryNotes  = []note{{523.25, 110 * time.Millisecond}, {659.25, 110 * time.Millisecond}, {783.99, 110 * time.Millisecond}, {1046.5, 240 * time.Millisecond}}
)

// Speaker は beep のスピーカーで音を鳴らします
type Speaker struct {
	mu     sync.Mutex
	closed bool
}

// NewSpeaker はスピーカーを初期化します
// 失敗した場合は呼び出し側で Nop を使ってください
func NewSpeaker() (*Speaker, error) {
	if err := speaker.Init(sampleRate, sampleRate.N(time.Second/10)); err != nil {
		return nil, err
	}
	return &Speaker{}, nil
}

func (s *Speaker) play(notes []note) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	streamer, err := melody(sampleRate, notes)
	if err != nil {
		return
	}
	speaker.Play(&effects.Volume{Streamer: streamer, Base: 2, Volume: -2})
}

func (s *Speaker) Click()    { s.play(clickNotes) }
func (s *Speaker) Detonate() { s.play(detonateNotes) }
func (s *Speaker) Victory()  { s.play(victoryNotes) }

func (s *Speaker) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	speaker.Clear()
	speaker.Close()
}

// melody は音符を順に鳴らすストリーマを作ります
func melody(sr beep.SampleRate, notes []note) (beep.Streamer, error) {
	parts := make([]beep.Streamer, 0, len(notes))
	for _, n := range notes {
		sine, err := generators.SineTone(sr, n.freq)
		if err != nil {
			return nil, err
		}
		parts = append(parts, beep.Take(sr.N(n.dur), sine))
	}
	return beep.Seq(parts...), nil
}
