package protocol

// The object-update family (LayerData, ObjectUpdate and its compressed,
// cached and terse variants, KillObject) and the teleport handshake
// packets carry large, scene-graph-shaped bodies that no component in
// this session core interprets directly — they are handed to external
// object/inventory/environment collaborators as opaque bytes per §6.2
// and the handler summary in §4.5. They are registered here as Raw so
// the dispatch table and ack/reliability layers see a named variant
// without this package owning their field layout.
func init() {
	register(11, FrequencyHigh, "LayerData", decodeRaw("LayerData"))
	register(12, FrequencyHigh, "ObjectUpdate", decodeRaw("ObjectUpdate"))
	register(13, FrequencyHigh, "ObjectUpdateCompressed", decodeRaw("ObjectUpdateCompressed"))
	register(14, FrequencyHigh, "ObjectUpdateCached", decodeRaw("ObjectUpdateCached"))
	register(15, FrequencyHigh, "ImprovedTerseObjectUpdate", decodeRaw("ImprovedTerseObjectUpdate"))
	register(16, FrequencyHigh, "KillObject", decodeRaw("KillObject"))
	register(62, FrequencyLow, "TeleportRequest", decodeRaw("TeleportRequest"))
	register(73, FrequencyLow, "TeleportStart", decodeRaw("TeleportStart"))
}
