package main

// webUIHTML is the embedded web interface HTML
const webUIHTML = `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>Career Countdown</title>
    <style>
        :root {
            --primary: #2563eb;
            --success: #16a34a;
            --danger: #dc2626;
            --bg: #f1f5f9;
            --card-bg: #ffffff;
            --text: #1e293b;
            --text-muted: #64748b;
            --border: #e2e8f0;
        }
        * { box-sizing: border-box; margin: 0; padding: 0; }
        body {
            font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif;
            background: var(--bg);
            color: var(--text);
            font-size: 13px;
        }
        .menu {
            display: flex;
            gap: 2px;
            background: var(--card-bg);
            border-bottom: 1px solid var(--border);
            padding: 2px 4px;
        }
        .menu button, .menu select {
            border: none;
            background: none;
            padding: 4px 8px;
            font-size: 12px;
            cursor: pointer;
            color: var(--text);
        }
        .menu button:hover { background: var(--bg); }
        .labels { padding: 5px; }
        .labels div { padding: 1px 0; }
        .info { color: var(--primary); }
        .success { color: var(--success); }
        .bar {
            margin: 4px 5px;
            height: 16px;
            border: 1px solid var(--border);
            background: #e5e7eb;
            position: relative;
        }
        .bar .fill { height: 100%; background: var(--primary); }
        .bar .pct {
            position: absolute; top: 0; width: 100%;
            text-align: center; font-size: 11px; line-height: 16px;
        }
        .status {
            border-top: 1px solid var(--border);
            color: var(--text-muted);
            padding: 3px 5px;
            font-size: 11px;
        }
        dialog { border: 1px solid var(--border); padding: 12px; }
        dialog label { display: block; margin-top: 6px; }
        dialog input { width: 100%; padding: 3px; }
        dialog .buttons { margin-top: 10px; text-align: right; }
        .error { color: var(--danger); margin-top: 6px; }
    </style>
</head>
<body>
    <div class="menu">
        <button onclick="openEdit()">Edit Profile</button>
        <button onclick="newProfile()">New Profile</button>
        <select id="profileSelect" onchange="selectProfile(this.value)"></select>
        <button onclick="saveProfiles()">Save</button>
        <button onclick="deleteProfile()">Delete</button>
        <button onclick="window.location='/api/export-pdf'">PDF</button>
        <button onclick="about()">About</button>
    </div>
    <div class="labels">
        <div id="age"></div>
        <div id="career_start"></div>
        <div id="time_in_career"></div>
        <div id="retirement_date" class="info"></div>
        <div id="years_remaining"></div>
        <div id="time_remaining"></div>
        <div id="since_anniversary"></div>
        <div id="next_anniversary"></div>
    </div>
    <div class="bar"><div class="fill" id="fill"></div><div class="pct" id="pct"></div></div>
    <div class="status" id="status"></div>

    <dialog id="editDialog">
        <form method="dialog" onsubmit="return submitEdit(event)">
            <label>Birthdate: <input type="date" id="birthdate" required></label>
            <label>Career Start Date: <input type="date" id="career_start_input" required></label>
            <label>Retirement Age: <input type="number" id="retirement_age" min="1" max="100" required></label>
            <div class="error" id="editError"></div>
            <div class="buttons">
                <button type="button" onclick="editDialog.close()">Cancel</button>
                <button type="submit">Save</button>
            </div>
        </form>
    </dialog>

    <script>
        const TONES = ['', 'info', 'success'];
        let current = '';
        let profiles = [];

        function render(data) {
            if (!data.success) return;
            const labels = data.labels;
            for (const key of ['age', 'career_start', 'time_in_career', 'retirement_date',
                               'years_remaining', 'time_remaining', 'since_anniversary', 'next_anniversary']) {
                const el = document.getElementById(key);
                el.textContent = labels[key].text;
                el.className = TONES[labels[key].tone] || '';
            }
            const pct = data.frame.countdown.progress_percent;
            document.getElementById('fill').style.width = pct + '%';
            document.getElementById('fill').style.background =
                data.frame.countdown.career_ended ? 'var(--success)' : 'var(--primary)';
            document.getElementById('pct').textContent = labels.progress + '%';
            document.getElementById('status').textContent = labels.status.text;
            if (data.frame.profile !== current) {
                current = data.frame.profile;
                loadProfiles();
            }
        }

        function connect() {
            const source = new EventSource('/api/stream');
            source.onmessage = (e) => render(JSON.parse(e.data));
            source.onerror = () => {
                source.close();
                setTimeout(connect, 1000);
            };
        }

        async function api(method, url, body) {
            const opts = { method, headers: { 'Content-Type': 'application/json' } };
            if (body !== undefined) opts.body = JSON.stringify(body);
            const resp = await fetch(url, opts);
            const data = await resp.json();
            if (!data.success) throw new Error(data.error);
            return data;
        }

        async function loadProfiles() {
            const data = await api('GET', '/api/profiles');
            applyProfiles(data);
        }

        function applyProfiles(data) {
            profiles = data.profiles || [];
            current = data.current;
            const select = document.getElementById('profileSelect');
            select.innerHTML = '';
            for (const p of profiles) {
                const opt = document.createElement('option');
                opt.value = p.name;
                opt.textContent = p.name;
                opt.selected = p.current;
                select.appendChild(opt);
            }
            refresh();
        }

        async function refresh() {
            render(await api('GET', '/api/countdown'));
        }

        async function selectProfile(name) {
            try { applyProfiles(await api('POST', '/api/profiles/' + encodeURIComponent(name) + '/select')); }
            catch (e) { alert(e.message); }
        }

        async function newProfile() {
            const name = prompt('Enter new profile name:');
            if (!name) return;
            try { applyProfiles(await api('POST', '/api/profiles', { name })); }
            catch (e) { alert('Profile Exists\n\n' + e.message); }
        }

        async function saveProfiles() {
            try {
                await api('POST', '/api/profiles/save');
                alert("Profile '" + current + "' has been saved.");
            } catch (e) { alert('Error\n\nFailed to save profiles: ' + e.message); }
        }

        async function deleteProfile() {
            if (profiles.length <= 1) {
                alert('Cannot Delete\n\nYou must have at least one profile.');
                return;
            }
            const name = prompt('Select profile to delete:\n' + profiles.map(p => p.name).join('\n'));
            if (!name) return;
            if (!confirm("Are you sure you want to delete the profile '" + name + "'?")) return;
            try {
                applyProfiles(await api('DELETE', '/api/profiles/' + encodeURIComponent(name)));
                alert("Profile '" + name + "' has been deleted.");
            } catch (e) { alert(e.message); }
        }

        function openEdit() {
            const p = profiles.find(p => p.name === current);
            if (!p) return;
            document.getElementById('birthdate').value = p.settings.birthdate;
            document.getElementById('career_start_input').value = p.settings.career_start;
            document.getElementById('retirement_age').value = p.settings.retirement_age;
            document.getElementById('editError').textContent = '';
            document.getElementById('editDialog').showModal();
        }

        async function submitEdit(event) {
            event.preventDefault();
            const settings = {
                birthdate: document.getElementById('birthdate').value,
                career_start: document.getElementById('career_start_input').value,
                retirement_age: parseInt(document.getElementById('retirement_age').value, 10)
            };
            try {
                applyProfiles(await api('PUT', '/api/profiles/' + encodeURIComponent(current), settings));
                document.getElementById('editDialog').close();
            } catch (e) {
                document.getElementById('editError').textContent = e.message;
            }
            return false;
        }

        async function about() {
            const data = await api('GET', '/api/about');
            alert(data.name + '\nVersion ' + data.version);
        }

        loadProfiles();
        connect();
    </script>
</body>
</html>
`
