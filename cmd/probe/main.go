// Command probe sends a single Modbus TCP query to a server and prints the
// response frame. Useful for poking a running mbapserver by hand.
package main

import (
	"encoding/binary"
	"flag"
	"fmt"
	"io"
	"net"
	"os"
	"strconv"
	"time"

	"github.com/Moonlight-Companies/mbapserver/common"
)

func main() {
	address := flag.String("address", "127.0.0.1", "Server address")
	port := flag.Int("port", common.DefaultTCPPort, "Server TCP port")
	fc := flag.Int("fc", int(common.FuncReadInputRegisters), "Function code to send")
	addr := flag.Int("addr", 0, "Start address")
	count := flag.Int("count", 1, "Quantity (or value for single writes)")
	flag.Parse()

	conn, err := net.DialTimeout("tcp", net.JoinHostPort(*address, strconv.Itoa(*port)), 5*time.Second)
	if err != nil {
		fmt.Fprintf(os.Stderr, "dial: %v\n", err)
		os.Exit(1)
	}
	defer conn.Close()

	// Header + function code + start address + count/value
	query := make([]byte, 12)
	binary.BigEndian.PutUint16(query[0:], 1) // transaction id
	binary.BigEndian.PutUint16(query[4:], 6) // unit id + 5 PDU bytes follow
	query[6] = byte(common.DeviceUnitID)
	query[7] = byte(*fc)
	binary.BigEndian.PutUint16(query[8:], uint16(*addr))
	binary.BigEndian.PutUint16(query[10:], uint16(*count))

	fmt.Printf("-> % X\n", query)

	if _, err := conn.Write(query); err != nil {
		fmt.Fprintf(os.Stderr, "write: %v\n", err)
		os.Exit(1)
	}

	conn.SetReadDeadline(time.Now().Add(5 * time.Second))

	header := make([]byte, common.TCPHeaderLength)
	if _, err := io.ReadFull(conn, header); err != nil {
		fmt.Fprintf(os.Stderr, "read header: %v (the server drops malformed frames silently)\n", err)
		os.Exit(1)
	}

	length := binary.BigEndian.Uint16(header[4:6])
	frame := make([]byte, common.TCPHeaderLength+int(length)-1)
	copy(frame, header)
	if _, err := io.ReadFull(conn, frame[common.TCPHeaderLength:]); err != nil {
		fmt.Fprintf(os.Stderr, "read body: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("<- % X\n", frame)

	if common.IsException(frame[7]) {
		fmt.Printf("exception: %v\n", common.NewModbusError(
			common.FunctionCode(frame[7]), common.ExceptionCode(frame[8])))
	}
}
