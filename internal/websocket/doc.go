// Package websocket serves the interactive dashboard channel at /ws.
//
// Each connection is a Client with its own read pump and write pump. The
// browser sends athlete_selected, insights_requested and heartbeat messages;
// the server answers with athlete_view, insights or error envelopes of the
// form {"type","data","timestamp"}. The Hub tracks live sessions for health
// reporting and broadcasts dataset_updated after a reload.
package websocket
