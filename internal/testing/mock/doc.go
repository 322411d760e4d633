// Package mock provides an in-process MCP tool server for tests.
//
// A Server exposes a fixed set of tools whose answers are configured up front,
// either in Go or from a YAML file:
//
//	tools:
//	  - name: get-ticker
//	    description: "Ticker for a symbol"
//	    responses:
//	      - condition:
//	          symbol: "BAD/PAIR"
//	        response: "Error: symbol not found"
//	      - response: "ticker {{ .symbol }} last=27050"
//	  - name: get-market-types
//	    responses:
//	      - response:
//	          marketTypes: [spot, swap]
//
// String responses are Go templates over the call arguments with the sprig
// function set. Maps and lists are sent as JSON text. A response with kind
// "structured" is sent as structured content only, kind "image" as a single
// image block, and a response with error set as a tool-level error.
//
// HTTPServer serves a Server over streamable HTTP on 127.0.0.1 with a
// dynamically allocated port. Endpoint returns the URL to point a client at.
package mock
