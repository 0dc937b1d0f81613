package app

import (
	"log"
	"time"

	"github.com/ayusman/tinsel/internal/capture"
	"github.com/ayusman/tinsel/internal/gesture"
)

// Start begins the capture pipeline.
func (a *App) Start() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	// Don't start if already running
	if a.stopCh != nil {
		return nil
	}

	if err := a.camera.Open(); err != nil {
		return err
	}

	a.camera.SetFPS(capture.IdleFPS)

	a.stopCh = make(chan struct{})
	go a.runPipeline(a.stopCh)

	log.Println("Capture pipeline started")
	return nil
}

// Stop halts the capture pipeline and releases resources.
func (a *App) Stop() {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.stopCh != nil {
		close(a.stopCh)
		a.stopCh = nil
	}

	if err := a.camera.Close(); err != nil {
		log.Printf("Error closing camera: %v", err)
	}

	a.motion.Close()

	if a.detector != nil {
		if err := a.detector.Close(); err != nil {
			log.Printf("Error closing detector: %v", err)
		}
	}

	log.Println("Capture pipeline stopped")
}

// runPipeline is the capture loop. It runs at the idle rate until motion
// is detected, then switches to the active rate, classifies the first
// detected hand each tick, and feeds the resulting signal to the state
// machine. Only the latest signal matters: there is no queue, and a tick
// with no hand feeds the neutral signal so flags decay immediately.
func (a *App) runPipeline(stopCh <-chan struct{}) {
	activeMode := false
	lastMotionTime := time.Now()

	frameInterval := time.Second / time.Duration(capture.IdleFPS)
	ticker := time.NewTicker(frameInterval)
	defer ticker.Stop()

	for {
		select {
		case <-stopCh:
			return
		case <-ticker.C:
			if !a.IsEnabled() {
				continue
			}

			frame, err := a.camera.ReadFrame()
			if err != nil {
				log.Printf("Error reading frame: %v", err)
				continue
			}
			framesCaptured.Inc()

			motionDetected, _ := a.motion.Detect(frame)

			if motionDetected {
				lastMotionTime = time.Now()

				if !activeMode {
					activeMode = true
					a.camera.SetFPS(capture.ActiveFPS)
					frameInterval = time.Second / time.Duration(capture.ActiveFPS)
					ticker.Reset(frameInterval)
					log.Println("Switched to active mode")
				}
			} else if activeMode {
				if time.Since(lastMotionTime) > IdleTimeout {
					activeMode = false
					a.camera.SetFPS(capture.IdleFPS)
					frameInterval = time.Second / time.Duration(capture.IdleFPS)
					ticker.Reset(frameInterval)
					log.Println("Switched to idle mode")
				}
			}

			if !activeMode {
				frame.Close()
				a.feedSignal(gesture.Neutral())
				continue
			}

			hands, err := a.Detector().Detect(frame)
			frame.Close()

			if err != nil {
				log.Printf("Error detecting hands: %v", err)
				continue
			}

			sig := gesture.Neutral()
			if len(hands) > 0 {
				// Single-hand control: only the first hand drives the scene
				sig = gesture.Classify(&hands[0])
			}
			a.feedSignal(sig)
		}
	}
}

// feedSignal applies one gesture signal to the state machine and records
// it as the latest signal for the render tick's hand-position reads.
func (a *App) feedSignal(sig gesture.Signal) {
	a.mu.Lock()
	a.lastSignal = sig
	selectable := a.layout.PhotoIDs()
	a.mu.Unlock()

	signalsClassified.Inc()
	a.machine.Apply(sig, selectable, time.Now())
}

// LastSignal returns the most recent gesture signal.
func (a *App) LastSignal() gesture.Signal {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.lastSignal
}
