package constants

import "time"

// Heartbeat payload values. The body is always status=up&msg=OK&ping=.
const (
	PushStatusUp       = "up"
	DefaultPushMessage = "OK"
	DefaultPushPing    = ""
)

const (
	DefaultInterval   = 60 * time.Second
	DefaultMethod     = "POST"
	TokenlessMethod   = "GET" // used when neither a method nor a token is configured
	DefaultConfigPath = "configs/config.yaml"
)

// HTTP wire details of a push request.
const (
	PushTokenHeader    = "X-Push-Token"
	FormContentType    = "application/x-www-form-urlencoded"
	UserAgentProduct   = "push-agent"
	ResponseDrainLimit = 128 * 1024 // bytes read from a response before it is closed
)

// PushedLogMessage is logged after every push that got a response, whatever its status code.
const PushedLogMessage = "Pushed!"
