package cli

var BuiltVersion = "snapshot"

func Version() string {
	return BuiltVersion
}
