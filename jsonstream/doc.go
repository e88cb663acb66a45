// Package jsonstream implements an incremental JSON parser.
//
// The input is consumed as it arrives, in fragments of any size (for
// example successive reads from a network response), and the document
// becomes usable before it is complete: the Parser turns the byte
// stream into a lazy sequence of events, one per scalar value, each
// tagged with its full path from the document root:
//
//	p := jsonstream.NewParser(resp.Body)
//	for {
//		ev, err := p.Next()
//		if err == io.EOF {
//			break
//		}
//		if err != nil {
//			return err
//		}
//		fmt.Println(ev.Path, ev.Value)
//	}
//
// Two utilities rebuild nested values from the flat event sequence.
// Assembled reconstructs the whole document:
//
//	value, err := jsonstream.Assembled(jsonstream.NewParser(in))
//
// and a Grouper re-chunks the sequence into sub-documents at a chosen
// path depth, so a large top-level array can be processed one fully
// reconstructed element at a time, in constant memory:
//
//	g := jsonstream.NewGrouper(jsonstream.NewParser(in), 1)
//	for {
//		group, err := g.Next()
//		...
//	}
//
// Every stage is pull-driven: nothing is read from the input until the
// consumer asks for the next token, event or group, so a call to Next
// may block on upstream I/O and stopping iteration simply stops
// consumption.  The pipeline holds no resources of its own; closing
// the underlying reader remains its owner's business.
package jsonstream
