package server

import (
	"fmt"
	"log"
	"sort"
	"sync"

	"github.com/derktes/ir-scrutinizer/irsignal"
)

type frameListener struct {
	subscriber   string
	newFrameChan chan newFrameEvent
}

type signalList []irsignal.Analysis
type valueSignalListMap map[string]signalList
type protocolValueMap map[protocolID]valueSignalListMap
type frameDatabase struct {
	store      map[string]protocolValueMap
	listeners  []frameListener
	bufferSize int
	debug      bool
	mu         sync.Mutex // guards listeners, which stream handlers touch without dbLock
}

type frameCRUD interface {
	insert(collectorID string, protocol protocolID, value string, analysis irsignal.Analysis)
	getCollectorIDList() ([]string, error)
	getProtocolIDList(pCollectorID string) ([]protocolID, error)
	getValues(pCollectorID string, pProtocolID protocolID) ([]string, error)
	getSignalList(pCollectorID string, pProtocolID protocolID, value string) (signalList, error)
}

type frameNotifier interface {
	notify(subscriber string) (<-chan newFrameEvent, error)
	unNotify(subscriber string) error
}

var (
	_ frameCRUD     = (*frameDatabase)(nil)
	_ frameNotifier = (*frameDatabase)(nil)
)

func newDatabase(bufferSize int, debug bool) *frameDatabase {
	return &frameDatabase{store: make(map[string]protocolValueMap), bufferSize: bufferSize, debug: debug}
}

func (db *frameDatabase) notify(subscriber string) (<-chan newFrameEvent, error) {
	db.mu.Lock()
	defer db.mu.Unlock()
	for _, l := range db.listeners {
		if l.subscriber == subscriber {
			return nil, fmt.Errorf("Subscriber '%s' already registered", subscriber)
		}
	}
	db.listeners = append(db.listeners, frameListener{subscriber, make(chan newFrameEvent, db.bufferSize)})
	return db.listeners[len(db.listeners)-1].newFrameChan, nil
}

func (db *frameDatabase) unNotify(subscriber string) error {
	db.mu.Lock()
	defer db.mu.Unlock()
	for i, l := range db.listeners {
		if l.subscriber == subscriber {
			db.listeners = append(db.listeners[:i], db.listeners[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("Subscriber '%s' not registered", subscriber)
}

// broadcast never blocks: a subscriber whose buffer is full misses the event.
func (db *frameDatabase) broadcast(notif newFrameEvent) {
	db.mu.Lock()
	defer db.mu.Unlock()
	for _, l := range db.listeners {
		select {
		case l.newFrameChan <- notif:
		default:
			log.Printf("Subscriber '%s' is lagging, dropping frame event", l.subscriber)
		}
	}
}

func (db *frameDatabase) insert(collectorID string, protocol protocolID, value string, analysis irsignal.Analysis) {
	dbase := db.store
	protocol2Value, collectorIDOk := dbase[collectorID]
	if !collectorIDOk {
		log.Printf("Collector ID '%s' not found. Creating new entry.", collectorID)
		protocol2Value = make(protocolValueMap)
		dbase[collectorID] = protocol2Value
	}
	value2SignalList, protocolIDOk := protocol2Value[protocol]
	if !protocolIDOk {
		if db.debug {
			log.Printf("Protocol ID '%s' not found. Creating new entry.", protocol)
		}
		value2SignalList = make(valueSignalListMap)
		protocol2Value[protocol] = value2SignalList
	}
	value2SignalList[value] = append(value2SignalList[value], analysis)
	log.Printf("%s > %s > %s now has %d items", collectorID, protocol, value, len(value2SignalList[value]))
	db.broadcast(newFrameEvent{
		CollectorID: collectorID,
		ProtocolID:  protocol.String(),
		Value:       value,
		Signal:      summarize(analysis),
		Analysis:    analysis.Segmentation,
	})
}

func (db *frameDatabase) getCollectorIDList() ([]string, error) {
	dbase := db.store
	collectorIDList := make([]string, 0, len(dbase))
	for cid := range dbase {
		collectorIDList = append(collectorIDList, cid)
	}
	sort.Strings(collectorIDList)
	return collectorIDList, nil
}

func (db *frameDatabase) getProtocolIDList(pCollectorID string) ([]protocolID, error) {
	protocol2Value, collectorIDOk := db.store[pCollectorID]
	if !collectorIDOk {
		return nil, fmt.Errorf("Collector ID '%s' cannot be found", pCollectorID)
	}
	protocolIDList := make([]protocolID, 0, len(protocol2Value))
	for pid := range protocol2Value {
		protocolIDList = append(protocolIDList, pid)
	}
	sort.Slice(protocolIDList, func(i, j int) bool { return protocolIDList[i] < protocolIDList[j] })
	return protocolIDList, nil
}

func (db *frameDatabase) getValues(pCollectorID string, pProtocolID protocolID) ([]string, error) {
	protocol2Value, collectorIDOk := db.store[pCollectorID]
	if !collectorIDOk {
		return nil, fmt.Errorf("Collector ID '%s' cannot be found", pCollectorID)
	}
	value2SignalList, protocolIDOk := protocol2Value[pProtocolID]
	if !protocolIDOk {
		return nil, fmt.Errorf("Protocol ID '%s' cannot be found", pProtocolID)
	}
	valueList := make([]string, 0, len(value2SignalList))
	for value := range value2SignalList {
		valueList = append(valueList, value)
	}
	sort.Strings(valueList)
	return valueList, nil
}

func (db *frameDatabase) getSignalList(pCollectorID string, pProtocolID protocolID, value string) (signalList, error) {
	values, err := db.getValues(pCollectorID, pProtocolID)
	if err != nil {
		return nil, err
	}
	for _, v := range values {
		if v == value {
			return db.store[pCollectorID][pProtocolID][value], nil
		}
	}
	return nil, fmt.Errorf("Value '%s' cannot be found", value)
}
