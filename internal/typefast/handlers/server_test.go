package handlers

import (
	"bufio"
	"context"
	"fmt"
	"net"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"typefast/internal/typefast/game"
)

// startTestServer runs a server on a loopback listener with fast round
// pacing and returns its address.
func startTestServer(t *testing.T, cfg ServerConfig) (*Server, net.Addr) {
	t.Helper()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	srv := NewServer(cfg)
	srv.round.SettleDelay = time.Millisecond
	srv.round.TickInterval = 5 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go srv.Serve(ctx, ln)

	return srv, ln.Addr()
}

func dialTestServer(t *testing.T, addr net.Addr) (net.Conn, *bufio.Scanner) {
	t.Helper()

	conn, err := net.Dial("tcp", addr.String())
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	require.NoError(t, conn.SetDeadline(time.Now().Add(10*time.Second)))

	return conn, bufio.NewScanner(conn)
}

func readLine(t *testing.T, scanner *bufio.Scanner) string {
	t.Helper()

	require.True(t, scanner.Scan(), "expected another line from the server")
	return scanner.Text()
}

// readUntilPrefix discards lines (countdown ticks, queue updates) until one
// matching the prefix arrives.
func readUntilPrefix(t *testing.T, scanner *bufio.Scanner, prefix string) string {
	t.Helper()

	for scanner.Scan() {
		if strings.HasPrefix(scanner.Text(), prefix) {
			return scanner.Text()
		}
	}
	t.Fatalf("connection closed before a line with prefix %q", prefix)
	return ""
}

func sendLine(t *testing.T, conn net.Conn, line string) {
	t.Helper()

	_, err := fmt.Fprintf(conn, "%s\n", line)
	require.NoError(t, err)
}

func TestServerFullGame(t *testing.T) {
	_, addr := startTestServer(t, ServerConfig{
		Words:        game.NewWordList([]string{"gopher"}),
		GroupSize:    1,
		WordsPerGame: 1,
		TimeLimit:    100,
		MaxClients:   10,
	})

	conn, scanner := dialTestServer(t, addr)

	assert.Equal(t, "Welcome to Typefast! Please register or login to play.", readLine(t, scanner))

	sendLine(t, conn, "REGISTER alice p1")
	assert.Equal(t, "Registration successful. Please login.", readLine(t, scanner))

	sendLine(t, conn, "REGISTER alice p1")
	assert.Equal(t, "Username already exists. Please try again.", readLine(t, scanner))

	sendLine(t, conn, "LOGIN alice p1")
	assert.Equal(t, "Login successful. Welcome alice!", readLine(t, scanner))

	sendLine(t, conn, "JOIN")
	assert.Equal(t, "Players in waiting list: 1", readLine(t, scanner))
	assert.Equal(t, "Added to waiting list. Waiting for other players...", readLine(t, scanner))

	// With a group size of one, the round starts immediately.
	assert.Equal(t, "New word: gopher", readLine(t, scanner))
	assert.Equal(t, "Time remaining: 100 seconds", readLine(t, scanner))

	sendLine(t, conn, "gopher")
	assert.Equal(t, "Correct! Time taken: 0 s.", readUntilPrefix(t, scanner, "Correct! Time taken:"))

	scoreLine := readUntilPrefix(t, scanner, "Correct! Your score for this word:")
	score, err := strconv.ParseFloat(strings.TrimPrefix(scoreLine, "Correct! Your score for this word: "), 64)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, score, 2.9, "a near-instant answer scores close to the maximum")

	readUntilPrefix(t, scanner, "Game over. Thanks for playing!")

	sendLine(t, conn, "SCOREBOARD")
	boardLine := readUntilPrefix(t, scanner, "Scoreboard:")
	assert.True(t, strings.HasPrefix(boardLine, "Scoreboard: alice: "), "got %q", boardLine)
}

func TestServerExitDuringRound(t *testing.T) {
	_, addr := startTestServer(t, ServerConfig{
		Words:        game.NewWordList([]string{"gopher"}),
		GroupSize:    1,
		WordsPerGame: 5,
		TimeLimit:    100,
		MaxClients:   10,
	})

	conn, scanner := dialTestServer(t, addr)

	readLine(t, scanner) // greeting
	sendLine(t, conn, "REGISTER alice p1")
	readLine(t, scanner)
	sendLine(t, conn, "LOGIN alice p1")
	readLine(t, scanner)

	sendLine(t, conn, "JOIN")
	readUntilPrefix(t, scanner, "New word:")

	sendLine(t, conn, "EXIT")
	// The EXIT acknowledgement arrives inline; the round sends the same
	// dashboard notice once it observes the flag at the next tick.
	readUntilPrefix(t, scanner, "Exiting game. Welcome to dashboard.")
	readUntilPrefix(t, scanner, "Exiting game. Welcome to dashboard.")

	// The session can queue again afterwards.
	sendLine(t, conn, "JOIN")
	readUntilPrefix(t, scanner, "Added to waiting list. Waiting for other players...")
	readUntilPrefix(t, scanner, "New word:")
}

func TestServerDisconnectCleanup(t *testing.T) {
	srv, addr := startTestServer(t, ServerConfig{
		Words:      game.NewWordList([]string{"gopher"}),
		GroupSize:  2,
		MaxClients: 10,
	})

	conn, scanner := dialTestServer(t, addr)
	readLine(t, scanner) // greeting
	sendLine(t, conn, "REGISTER bob p2")
	readLine(t, scanner)
	sendLine(t, conn, "LOGIN bob p2")
	readLine(t, scanner)
	sendLine(t, conn, "JOIN")
	readUntilPrefix(t, scanner, "Added to waiting list.")

	conn.Close()

	require.Eventually(t, func() bool {
		return !srv.registry.LoggedIn("bob") && srv.matchmaker.Len() == 0
	}, 5*time.Second, 10*time.Millisecond, "disconnect should clear the directory and the queue")
}

func TestServerBoundedPool(t *testing.T) {
	_, addr := startTestServer(t, ServerConfig{
		Words:      game.NewWordList([]string{"gopher"}),
		GroupSize:  2,
		MaxClients: 1,
	})

	first, firstScanner := dialTestServer(t, addr)
	readLine(t, firstScanner) // greeting: the only slot is now taken

	second, err := net.Dial("tcp", addr.String())
	require.NoError(t, err)
	defer second.Close()

	// No handler slot is free, so the second client gets no greeting yet.
	require.NoError(t, second.SetReadDeadline(time.Now().Add(200*time.Millisecond)))
	buf := make([]byte, 1)
	_, err = second.Read(buf)
	var netErr net.Error
	require.ErrorAs(t, err, &netErr)
	assert.True(t, netErr.Timeout())

	// Freeing the slot lets the queued connection in.
	first.Close()

	require.NoError(t, second.SetReadDeadline(time.Now().Add(5*time.Second)))
	secondScanner := bufio.NewScanner(second)
	require.True(t, secondScanner.Scan())
	assert.Equal(t, "Welcome to Typefast! Please register or login to play.", secondScanner.Text())
}
