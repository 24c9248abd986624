package app

import (
	"log"
	"time"
)

// runPipeline is the main coaching loop that processes frames from the
// camera. It manages the transitions between idle and active capture rates
// based on presence detection.
//
// Pipeline logic:
// 1. Start in idle mode (idleFPS=5)
// 2. On motion detected, switch to active mode (activeFPS=15)
// 3. Run pose detection on the frame
// 4. Feed the pose frame to the active coaching session
// 5. Hand pending spoken feedback to the announcer
// 6. After 2s without motion, switch back to idle mode
func (a *App) runPipeline(stopCh <-chan struct{}) {
	// Track whether we're in active mode
	activeMode := false

	// Track the last motion detection time
	lastMotionTime := time.Now()

	// Frame interval based on current FPS
	frameInterval := time.Second / time.Duration(IdleFPS)

	ticker := time.NewTicker(frameInterval)
	defer ticker.Stop()

	for {
		select {
		case <-stopCh:
			return
		case <-ticker.C:
			// Skip processing if coaching is disabled
			if !a.IsEnabled() {
				continue
			}

			// Read a frame from the camera
			frame, err := a.camera.ReadFrame()
			if err != nil {
				log.Printf("Error reading frame: %v", err)
				continue
			}

			// Step 1: Presence detection
			motionDetected, _ := a.motion.Detect(frame)

			if motionDetected {
				lastMotionTime = time.Now()

				// Switch to active mode if not already
				if !activeMode {
					activeMode = true
					a.camera.SetFPS(ActiveFPS)
					frameInterval = time.Second / time.Duration(ActiveFPS)
					ticker.Reset(frameInterval)
					log.Println("Switched to active mode")
				}
			} else if activeMode {
				// Check if we should switch back to idle mode
				if time.Since(lastMotionTime) > time.Duration(IdleTimeoutMs)*time.Millisecond {
					activeMode = false
					a.camera.SetFPS(IdleFPS)
					frameInterval = time.Second / time.Duration(IdleFPS)
					ticker.Reset(frameInterval)
					log.Println("Switched to idle mode")
				}
			}

			session := a.Session()
			detector := a.Detector()

			// Skip further processing if idle or no session is running
			if !activeMode || session == nil || detector == nil {
				frame.Close()
				continue
			}

			// Step 2: Pose detection
			poseFrame, err := detector.Detect(frame)
			frame.Close() // Done with the frame

			if err != nil {
				log.Printf("Error detecting pose: %v", err)
				continue
			}

			// Step 3: Movement analysis
			snap := session.ProcessFrame(poseFrame)

			a.mu.Lock()
			a.faults += len(snap.Issues)
			statusFn := a.statusFn
			a.mu.Unlock()

			// Step 4: Spoken feedback
			if msg := session.TakeAnnouncement(); msg != nil {
				a.announcer.Speak(msg.Text, msg.Priority)
			}

			// Step 5: Status surfaces
			if statusFn != nil {
				statusFn(snap)
			}
		}
	}
}
