package pb

//go:generate protoc -I${GOPATH}/src -I${GOPATH}/src/github.com/vx-labs/sync-fabric/resources/pb/ --go_out=. resources.proto
