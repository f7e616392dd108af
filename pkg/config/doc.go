// Package config provides configuration for colframe processes.
//
// A single Config structure groups the settings of every component:
//   - Frame: default NaN padding policy and the exported index column name
//   - Logging: zap level, encoding and development mode
//   - Metrics: prometheus collection toggle and namespace
//   - RandGen: seed and row count of generated sample frames
//   - TopK: default bounded selector capacity
//
// # Usage
//
//	cfg, err := config.Load("colframe.yaml")
//	if err != nil {
//		log.Fatal(err)
//	}
//
// # Environment Variables
//
// Values in the YAML file may reference ${VAR_NAME}; the reference is replaced
// before parsing. Independently, any key can be overridden with a COLFRAME_
// prefixed variable where dots become underscores:
//
//	COLFRAME_LOGGING_LEVEL=debug
//	COLFRAME_FRAME_NAN_POLICY=dont_pad
package config
