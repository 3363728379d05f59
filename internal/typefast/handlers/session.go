package handlers

import (
	"bufio"
	"fmt"
	"log"
	"net"
	"strings"
	"time"

	"typefast/internal/typefast/game"
	"typefast/internal/typefast/models"
)

// handleConn runs one client from greeting to disconnect: read a line,
// dispatch it, repeat until the peer goes away. There is no read timeout; a
// silent peer is only noticed when the read fails.
func (s *Server) handleConn(conn net.Conn) {
	defer conn.Close()

	sess := models.NewSession(conn)
	defer s.cleanup(sess)

	sess.Send("Welcome to Typefast! Please register or login to play.")

	scanner := bufio.NewScanner(conn)
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		s.logf("session %s: %q", sess.ID, line)
		s.dispatch(sess, line)
	}
	if err := scanner.Err(); err != nil {
		log.Printf("session %s read error: %v", sess.ID, err)
	}

	log.Printf("connection from %s closed", conn.RemoteAddr())
}

// cleanup removes a disconnected session from every shared structure it may
// be referenced by, so the scoreboard and matchmaking never touch a dead
// connection.
func (s *Server) cleanup(sess *models.Session) {
	s.matchmaker.Remove(sess)
	if username, ok := sess.Username(); ok {
		s.registry.Logout(username)
	}
}

// dispatch routes one inbound line on its first space-delimited token.
// Anything that is not a known command is treated as a guess at the word in
// play.
func (s *Server) dispatch(sess *models.Session, line string) {
	tokens := strings.Split(line, " ")

	switch tokens[0] {
	case "REGISTER":
		if len(tokens) != 3 {
			sess.Send("Invalid registration command.")
			return
		}
		if err := s.registry.Register(tokens[1], tokens[2]); err != nil {
			sess.Send("Username already exists. Please try again.")
			return
		}
		sess.Send("Registration successful. Please login.")

	case "LOGIN":
		if len(tokens) != 3 {
			sess.Send("Invalid login command.")
			return
		}
		if err := s.registry.Authenticate(tokens[1], tokens[2], sess); err != nil {
			sess.Send("Invalid username or password. Please try again.")
			return
		}
		sess.Send(fmt.Sprintf("Login successful. Welcome %s!", tokens[1]))

	case "LOGOUT":
		username, ok := sess.Username()
		if !ok {
			sess.Send("You are not logged in.")
			return
		}
		s.registry.Logout(username)
		sess.ClearUser()
		sess.Send("Logout successful. Please login or register.")

	case "JOIN":
		if _, ok := sess.Username(); !ok {
			sess.Send("You must be logged in to join the game.")
			return
		}
		if err := s.matchmaker.Enqueue(sess); err != nil {
			sess.Send("You are already in the waiting list.")
		}

	case "SCOREBOARD":
		sess.Send(formatScoreboard(s.registry.Snapshot()))

	case "EXIT":
		sess.RequestExit()
		sess.Send("Exiting game. Welcome to dashboard.")

	default:
		s.handleGuess(sess, line)
	}
}

// handleGuess scores a guess against the session's word in play. The whole
// line is the guess; comparison is exact.
func (s *Server) handleGuess(sess *models.Session, guess string) {
	elapsed, ok := sess.TryAnswer(guess, time.Now())
	if !ok {
		sess.Send("Incorrect word. Try again.")
		return
	}

	points := game.Score(elapsed)
	sess.AddScore(points)
	sess.Send(fmt.Sprintf("Correct! Time taken: %d s.", int(elapsed.Seconds())))
	sess.Send("Correct! Your score for this word: " + game.FormatScore(points))
}
