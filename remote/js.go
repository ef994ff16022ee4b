package remote

// Locator scripts mirror the local document strategies so both substrates
// resolve the same element for the same criterion. Each returns a single
// element or null; null keeps the page-side retry loop polling.

const jsFindByLabel = `(value) => {
	for (const label of document.querySelectorAll('label')) {
		if ((label.textContent || '').trim() !== value) continue;
		const forID = label.getAttribute('for');
		if (forID) {
			const el = document.getElementById(forID);
			if (el) return el;
			continue;
		}
		const ctl = label.querySelector('input, select, textarea');
		if (ctl) return ctl;
	}
	return null;
}`

const jsFindByText = `(value, exact) => {
	const matches = [];
	for (const el of document.querySelectorAll('*')) {
		const tag = el.tagName.toLowerCase();
		if (tag === 'script' || tag === 'style' || tag === 'html' || tag === 'head') continue;
		const text = (el.textContent || '').trim();
		if (exact ? text === value : text.includes(value)) matches.push(el);
	}
	for (const m of matches) {
		let inner = false;
		for (const other of matches) {
			if (m === other) continue;
			if (m.contains(other)) { inner = true; break; }
		}
		if (!inner) return m;
	}
	return null;
}`

// jsStyleVisible reads computed style only, matching the local notion of
// visibility: display, visibility and opacity decide, geometry does not.
const jsStyleVisible = `() => {
	const style = window.getComputedStyle(this);
	if (style.display === 'none') return false;
	if (style.visibility === 'hidden' || style.visibility === 'collapse') return false;
	if (parseFloat(style.opacity) === 0) return false;
	return true;
}`
