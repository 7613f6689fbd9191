// Package logger wraps zap to give the device and its tools:
//   - a global sugared logger with a compact console encoder,
//   - context helpers (ToContext/FromContext/WithName/WithKV),
//   - level parsing and runtime level changes,
//   - convenience functions (Infof, ErrorKV, etc.).
//
// Services take a context and pull the logger out of it, so every log line
// carries the component name and any fields attached along the call path.
package logger
