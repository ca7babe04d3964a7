/*

Package sender provides a client that sends metrics, events and service checks to a
DogStatsD agent over UDP or a Unix domain datagram socket.

Every call is encoded into the DogStatsD line protocol and either sent right away
(NewClient) or collected and sent in batches (NewBatchedClient). Sending never blocks
and never returns an error to the caller: when the agent is unreachable the payload is
dropped and accounted for in the client's telemetry.

Example

The following would send a counter to the agent listening on localhost:8125:

	client, err := sender.NewClient(sender.DefaultConfig())
	if err != nil {
		log.Fatal(err)
	}
	defer client.Close()

	client.Increment("page.views", 1, sender.Tags{{Key: "env", Value: "prod"}})

A batched client groups up to Config.MaxBufferLength lines per datagram and must be
closed, or flushed, to deliver the last batch:

	batched, _ := sender.NewBatchedClient(sender.DefaultConfig())
	defer batched.Close()

	batched.Gauge("queue.depth", 21, 1, nil)
	batched.ServiceCheck(sender.ServiceCheck{Name: "app.ok", Status: sender.OK})

*/
package sender
