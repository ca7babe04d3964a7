package sender_test

import (
	"fmt"
	sender "github.com/itzg/dogstatsd-sender"
	"log"
	"net"
	"time"
)

type ExampleAgent struct {
	conn net.PacketConn
}

func NewExampleAgent() *ExampleAgent {
	conn, err := net.ListenPacket("udp", "127.0.0.1:0")
	if err != nil {
		log.Fatal(err)
	}
	return &ExampleAgent{conn: conn}
}

func (a *ExampleAgent) Config() sender.Config {
	addr := a.conn.LocalAddr().(*net.UDPAddr)
	config := sender.DefaultConfig()
	config.Host = addr.IP.String()
	config.Port = addr.Port
	return config
}

// Print prints one received datagram.
func (a *ExampleAgent) Print() {
	buf := make([]byte, 65536)
	a.conn.SetReadDeadline(time.Now().Add(time.Second))
	n, _, err := a.conn.ReadFrom(buf)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Print(string(buf[:n]))
}

func (a *ExampleAgent) Close() {
	a.conn.Close()
}

func Example_sending() {
	agent := NewExampleAgent()
	defer agent.Close()

	config := agent.Config()
	config.MetricPrefix = "shop"
	config.GlobalTags = sender.Tags{{Key: "env", Value: "dev"}}
	client, _ := sender.NewClient(config)
	defer client.Close()

	client.Increment("page.views", 1, sender.ParseTags("page:home"))
	agent.Print()

	client.ServiceCheck(sender.ServiceCheck{Name: "shop.db", Status: sender.Critical})
	agent.Print()

	//Output:
	//shop.page.views:1|c|#env:dev,page:home
	//_sc|shop.db|2|#env:dev
}

func Example_batching() {
	agent := NewExampleAgent()
	defer agent.Close()

	config := agent.Config()
	config.Telemetry = sender.Bool(false)
	client, _ := sender.NewBatchedClient(config)

	client.Gauge("queue.depth", 21, 1, nil)
	client.Histogram("request.size", 512, 1, nil)
	client.Event(sender.Event{Title: "Event title", Text: "Event text"})
	client.Close()
	agent.Print()

	//Output:
	//queue.depth:21|g
	//request.size:512|h
	//_e{11,10}:Event title|Event text
}
