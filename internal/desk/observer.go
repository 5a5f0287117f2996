package desk

// subscriberBuffer is how many snapshots a slow subscriber may fall behind before
// updates to it are dropped.
const subscriberBuffer = 16

// Subscribe registers for a snapshot after every state change. Snapshots are
// dropped for a subscriber whose channel is full. The returned func unsubscribes
// and closes the channel.
func (c *Controller) Subscribe() (<-chan Snapshot, func()) {
	ch := make(chan Snapshot, subscriberBuffer)

	c.subsMu.Lock()
	id := c.nextSub
	c.nextSub++
	c.subs[id] = ch
	c.subsMu.Unlock()

	unsubscribe := func() {
		c.subsMu.Lock()
		defer c.subsMu.Unlock()
		if sub, ok := c.subs[id]; ok {
			delete(c.subs, id)
			close(sub)
		}
	}
	return ch, unsubscribe
}

func (c *Controller) notify() {
	c.subsMu.Lock()
	defer c.subsMu.Unlock()
	if len(c.subs) == 0 {
		return
	}

	snap := c.Snapshot()
	for _, ch := range c.subs {
		select {
		case ch <- snap:
		default:
		}
	}
}
