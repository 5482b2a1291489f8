package collector

import (
	"bufio"
	"encoding/json"
	"flag"
	"io"
	"log"
	"os"
	"os/signal"
	"sync"

	"github.com/pkg/errors"
	"github.com/tarm/serial"
)

type flagSet struct {
	serialPort *string
	baudRate   *int
	serverHost *string
	serverPort *int
	cid        *string
	mode2      *bool
	threshold  *float64
	debug      *bool
}

func (fs *flagSet) parseRequiredFlags() error {
	fs.serialPort = flag.String("serial", "", "Specifies the serial port in the form /dev/xxx")
	fs.baudRate = flag.Int("baud", 9600, "Specifies the baud rate of the serial port")
	fs.serverHost = flag.String("server", "localhost", "Specifies host name or IP address or server")
	fs.serverPort = flag.Int("port", 8080, "Specifies the port number of the server")
	fs.cid = flag.String("collectorId", "", "Specifies the id of this instance of collector")
	fs.mode2 = flag.Bool("mode2", false, "Reads LIRC mode2 pulse/space lines instead of JSON frames")
	fs.threshold = flag.Float64("threshold", DefaultMode2Threshold, "Space in microseconds that ends a mode2 frame")
	fs.debug = flag.Bool("debug", false, "Logs every received frame")
	flag.Parse()
	if len(*fs.cid) < 1 {
		flag.Usage()
		return errors.New("Collector ID not specified")
	}
	if len(*fs.serialPort) < 1 {
		flag.Usage()
		return errors.New("Serial port not specified")
	}
	return nil
}

// tagger stamps frames with the collector ID before they are published
type tagger struct {
	collectorID string
	debugMode   bool
	publish     func([]byte)
}

func (t *tagger) tag(frame json.RawMessage) {
	taggedFrameJSON, err := json.Marshal(taggedFrame{CollectorID: t.collectorID, Frame: frame})
	if err != nil {
		log.Println("Error marshaling.", err)
		return
	}
	if t.debugMode {
		log.Printf("Publishing -> %s", taggedFrameJSON)
	}
	t.publish(taggedFrameJSON)
}

// readJSONFrames expects one JSON object per line with the capture under
// "frame". Any collector ID sent by the device is replaced.
func (t *tagger) readJSONFrames(r io.Reader) error {
	lineScanner := bufio.NewScanner(r)
	for lineScanner.Scan() {
		frameJSON := lineScanner.Bytes()
		if len(frameJSON) == 0 {
			continue
		}
		if t.debugMode {
			log.Printf("Received frame -> %s", string(frameJSON))
		}
		var received taggedFrame
		if err := json.Unmarshal(frameJSON, &received); err != nil {
			log.Println(err)
			continue
		}
		if len(received.Frame) == 0 {
			log.Printf("Line without frame skipped: %s", string(frameJSON))
			continue
		}
		t.tag(received.Frame)
	}
	return errors.Wrap(lineScanner.Err(), "read frames")
}

func (t *tagger) readMode2(r io.Reader, threshold float64) error {
	return readMode2Frames(r, threshold, func(f capturedFrame) {
		frameJSON, err := json.Marshal(f)
		if err != nil {
			log.Println("Error marshaling.", err)
			return
		}
		t.tag(frameJSON)
	})
}

// Start launches the collector
func Start() {
	var collectorFlag flagSet
	if err := collectorFlag.parseRequiredFlags(); err != nil {
		log.Fatal(err)
	}

	if _, err := os.Stat(*collectorFlag.serialPort); err != nil {
		log.Fatal("Error checking serial port.", err)
	}
	config := &serial.Config{Name: *collectorFlag.serialPort, Baud: *collectorFlag.baudRate}
	port, err := serial.OpenPort(config)
	if err != nil {
		log.Fatal("Error opening serial port.", err)
	}
	defer port.Close()
	log.Printf("Opened serial port '%s' at baud rate %d", *collectorFlag.serialPort, *collectorFlag.baudRate)
	client, err := newPublishClient(*collectorFlag.serverHost, *collectorFlag.serverPort)
	if err != nil {
		log.Fatal("Error creating publish client.", err)
	}
	log.Printf("Frames will be published to '%s'", client.serverURL)
	go func() {
		signalChannel := make(chan os.Signal, 1)
		signal.Notify(signalChannel, os.Interrupt)

		log.Print("Press Ctrl-C to exit program")

		<-signalChannel

		log.Print("Closing serial port")
		port.Close()
	}()

	var wg sync.WaitGroup
	t := &tagger{
		collectorID: *collectorFlag.cid,
		debugMode:   *collectorFlag.debug,
		publish: func(taggedFrameJSON []byte) {
			wg.Add(1)
			go func() {
				defer wg.Done()
				if err := client.publishTaggedFrameJSON(taggedFrameJSON); err != nil {
					log.Print(err)
				}
			}()
		},
	}
	if *collectorFlag.mode2 {
		err = t.readMode2(port, *collectorFlag.threshold)
	} else {
		err = t.readJSONFrames(port)
	}
	if err != nil {
		log.Println(err)
	}
	wg.Wait()
}
