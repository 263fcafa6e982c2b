package network

import (
	"log"
	"net"

	"metricd.example.org/api"
)

// ListenAndDispatch listens on the provided UDP address, parses the received
// packets and dispatches them to the provided dispatcher.
func ListenAndDispatch(address string, d api.Dispatcher) error {
	laddr, err := net.ResolveUDPAddr("udp", address)
	if err != nil {
		return err
	}

	var sock *net.UDPConn
	if laddr.IP.IsMulticast() {
		sock, err = net.ListenMulticastUDP("udp", nil /* interface */, laddr)
	} else {
		sock, err = net.ListenUDP("udp", laddr)
	}
	if err != nil {
		return err
	}
	defer sock.Close()

	buf := make([]byte, DefaultBufferSize)
	for {
		n, err := sock.Read(buf)
		if err != nil {
			return err
		}

		valueLists, errs := Parse(buf[:n])
		for _, err := range errs {
			log.Printf("error while parsing: %v", err)
		}
		if len(valueLists) == 0 {
			continue
		}

		go dispatch(valueLists, d)
	}
}

// ListenAndDispatchSecure behaves like ListenAndDispatch, but requires every
// received packet to carry a valid signature or encryption envelope for one
// of the users in userToPassword; packets that don't are discarded.
func ListenAndDispatchSecure(address string, d api.Dispatcher, userToPassword map[string]string) error {
	laddr, err := net.ResolveUDPAddr("udp", address)
	if err != nil {
		return err
	}

	var sock *net.UDPConn
	if laddr.IP.IsMulticast() {
		sock, err = net.ListenMulticastUDP("udp", nil /* interface */, laddr)
	} else {
		sock, err = net.ListenUDP("udp", laddr)
	}
	if err != nil {
		return err
	}
	defer sock.Close()

	buf := make([]byte, DefaultBufferSize)
	for {
		n, err := sock.Read(buf)
		if err != nil {
			return err
		}

		payload, err := unwrap(buf[:n], userToPassword)
		if err != nil {
			log.Printf("error while unwrapping packet: %v", err)
			continue
		}

		valueLists, errs := Parse(payload)
		for _, err := range errs {
			log.Printf("error while parsing: %v", err)
		}
		if len(valueLists) == 0 {
			continue
		}

		go dispatch(valueLists, d)
	}
}

func dispatch(valueLists []api.ValueList, d api.Dispatcher) {
	for _, vl := range valueLists {
		if err := d.Dispatch(vl); err != nil {
			log.Printf("error while dispatching: %v", err)
		}
	}
}
