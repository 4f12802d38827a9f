// Package desktop adapts the local desktop to the service ports.
//
//   - ScreenCapturer grabs monitors with github.com/kbinani/screenshot
//   - JPEGEncoder compresses frames with image/jpeg
//   - XdotoolInjector synthesizes pointer and keyboard input through xdotool
//
// Monitor indexes are 1-based, matching the service layer.
package desktop
