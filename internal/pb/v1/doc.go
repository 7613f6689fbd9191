// Package pb declares the morse.v1.MorseService gRPC contract.
//
// The service is described by hand on top of the protobuf well-known types
// (wrapperspb, emptypb, structpb), so no generated message code is needed:
//
//	SendText(StringValue) returns (StringValue)       // text in, rendering out
//	SetIntensity(UInt32Value) returns (Empty)
//	Stop(Empty) returns (Empty)
//	GetStatus(Empty) returns (Struct)
//	WatchStatus(Empty) returns (stream Struct)
//
// Callers identify themselves with the ActorHostnameKey and ActorUsernameKey
// metadata entries.
package pb
